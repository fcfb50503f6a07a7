// Package rest implements the profile store against a PostgREST-style HTTP
// API, the interface exposed by the managed backend the production deployment
// runs on. Reads are filtered selects, writes are PATCH requests that ask for
// the updated representation back.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mundocomputo/authd/internal/auth/store"
)

const defaultTimeout = 10 * time.Second

type Store struct {
	baseURL    string
	serviceKey string
	hc         *http.Client
	timeout    time.Duration
}

// NewStore validates the required configuration up front so a misconfigured
// deployment fails at startup, not on the first request.
func NewStore(baseURL, serviceKey string, timeout time.Duration) (*Store, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, errors.New("rest store: base URL and service key are required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		hc:         &http.Client{},
		timeout:    timeout,
	}, nil
}

func (s *Store) Profiles() store.Profiles { return &profilesRepo{s: s} }

func (s *Store) Close() error { return nil }

// Ping issues a cheap filtered read to confirm the backend answers.
func (s *Store) Ping(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodGet, s.baseURL+"/rest/v1/profiles?select=id&limit=1", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !statusOK(resp) {
		return fmt.Errorf("rest store: ping failed with status %s", resp.Status)
	}
	return nil
}

// tableURL builds a table endpoint with an eq filter on one column.
func (s *Store) tableURL(table, column, value, extra string) string {
	u := s.baseURL + "/rest/v1/" + table + "?" + column + "=eq." + url.QueryEscape(value)
	if extra != "" {
		u += "&" + extra
	}
	return u
}

func statusOK(r *http.Response) bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// mapTimeout folds deadline errors into store.ErrTimeout so callers surface
// 504 instead of a generic upstream failure.
func mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", store.ErrTimeout, err)
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("%w: %v", store.ErrTimeout, err)
	}
	return err
}
