package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultEndpoint is the hosted transactional-mail API used by the
	// managed deployment.
	DefaultEndpoint = "https://api.resend.com/emails"

	defaultTimeout = 10 * time.Second
)

// RESTMailer dispatches through a transactional-mail HTTP API carrying
// from/to/subject/html and a bearer key.
type RESTMailer struct {
	endpoint string
	apiKey   string
	hc       *http.Client
	timeout  time.Duration
}

func NewRESTMailer(endpoint, apiKey string, timeout time.Duration) (*RESTMailer, error) {
	if apiKey == "" {
		return nil, errors.New("mail: API key is required")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &RESTMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		hc:       &http.Client{},
		timeout:  timeout,
	}, nil
}

type restMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *RESTMailer) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	body, err := json.Marshal(restMessage{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("mail: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.hc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %s: %s", ErrDelivery, resp.Status, bytes.TrimSpace(detail))
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}
