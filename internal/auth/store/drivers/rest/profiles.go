package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mundocomputo/authd/internal/auth/domain"
	"github.com/mundocomputo/authd/internal/auth/store"
	"github.com/mundocomputo/authd/pkg/guard"
)

type profilesRepo struct {
	s *Store
}

// profileRow mirrors the profiles table representation returned by the API.
type profileRow struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Role         *string    `json:"role"`
	MFACode      *string    `json:"mfa_code"`
	MFAExpiresAt *time.Time `json:"mfa_expires_at"`
	MFAVerified  bool       `json:"mfa_verified"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (r *profilesRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	u := r.s.tableURL("profiles", "email", email, "select=*")
	resp, err := r.s.do(ctx, http.MethodGet, u, nil, nil)
	if err != nil {
		return domain.Profile{}, err
	}
	defer resp.Body.Close()

	if !statusOK(resp) {
		return domain.Profile{}, statusError("fetch profile", resp)
	}

	var rows []profileRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return domain.Profile{}, fmt.Errorf("rest store: decode profiles: %w", err)
	}
	if len(rows) == 0 {
		return domain.Profile{}, store.ErrNotFound
	}
	return mapProfile(rows[0])
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	body := map[string]any{
		"id":           p.ID,
		"email":        p.Email,
		"mfa_verified": p.MFAVerified,
	}
	if p.Role != nil {
		body["role"] = p.Role.String()
	}
	resp, err := r.s.do(ctx, http.MethodPost, r.s.baseURL+"/rest/v1/profiles", body, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return store.ErrAlreadyExists
	}
	if !statusOK(resp) {
		return statusError("create profile", resp)
	}
	return nil
}

func (r *profilesRepo) SetPendingCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	// The filter may match zero rows; the backend still answers 200 with an
	// empty representation. That mirrors the managed deployment, where a
	// code request for an unknown email is not an error at this layer.
	u := r.s.tableURL("profiles", "email", email, "")
	return r.patch(ctx, "set pending code", u, map[string]any{
		"mfa_code":       code,
		"mfa_expires_at": expiresAt.UTC().Format(time.RFC3339),
		"mfa_verified":   false,
	})
}

func (r *profilesRepo) CompleteVerification(ctx context.Context, profileID string) error {
	u := r.s.tableURL("profiles", "id", profileID, "")
	return r.patch(ctx, "complete verification", u, map[string]any{
		"mfa_code":       nil,
		"mfa_expires_at": nil,
		"mfa_verified":   true,
	})
}

func (r *profilesRepo) SetRole(ctx context.Context, profileID string, role guard.Role) error {
	u := r.s.tableURL("profiles", "id", profileID, "")
	return r.patch(ctx, "set role", u, map[string]any{
		"role": role.String(),
	})
}

func (r *profilesRepo) patch(ctx context.Context, op, url string, body map[string]any) error {
	resp, err := r.s.do(ctx, http.MethodPatch, url, body, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !statusOK(resp) {
		return statusError(op, resp)
	}
	return nil
}

// do performs one bounded outbound call with the service credentials set.
func (s *Store) do(ctx context.Context, method, url string, body any, headers map[string]string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("rest store: encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("rest store: build request: %w", err)
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, mapTimeout(fmt.Errorf("rest store: %s %s: %w", method, url, err))
	}

	// The response body must be consumed before the per-call context is
	// cancelled, so buffer it here instead of handing the caller a live
	// network stream.
	buf, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, mapTimeout(fmt.Errorf("rest store: read response: %w", err))
	}
	resp.Body = io.NopCloser(bytes.NewReader(buf))
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("rest store: %s: status %s: %s", op, resp.Status, bytes.TrimSpace(b))
}

func mapProfile(row profileRow) (domain.Profile, error) {
	p := domain.Profile{
		ID:           row.ID,
		Email:        row.Email,
		MFACode:      row.MFACode,
		MFAExpiresAt: row.MFAExpiresAt,
		MFAVerified:  row.MFAVerified,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.Role != nil && *row.Role != "" {
		role, err := guard.ParseRole(*row.Role)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("rest store: profile %s: %w", row.ID, err)
		}
		p.Role = &role
	}
	return p, nil
}
