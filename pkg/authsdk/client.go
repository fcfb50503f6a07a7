// Package authsdk is the client SDK for the authd service. The web frontend's
// verification page uses it to request and submit codes and to refresh the
// session's role state afterwards, feeding the route guard.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SDKClient talks to one authd deployment. AccessToken, when set, rides on
// every request that does not carry its own Authorization header.
type SDKClient struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendCode requests a fresh verification code for email. Reissuing is safe:
// the previous outstanding code is overwritten.
func (c *SDKClient) SendCode(ctx context.Context, email string) error {
	var out SuccessResponse
	return c.postJSON(ctx, "/v1/2fa/send", SendCodeRequest{Email: email}, nil, &out)
}

// VerifyCode submits a received code for email.
func (c *SDKClient) VerifyCode(ctx context.Context, email, code string) error {
	var out SuccessResponse
	return c.postJSON(ctx, "/v1/2fa/verify", VerifyCodeRequest{Email: email, Code: code}, nil, &out)
}

// GetSession fetches the role/verification state bound to accessToken.
func (c *SDKClient) GetSession(ctx context.Context, accessToken string) (SessionResponse, error) {
	var out SessionResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/session", nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	}, &out)
	return out, err
}

// SendInvoice dispatches an invoice mail through the service.
func (c *SDKClient) SendInvoice(ctx context.Context, inv InvoiceRequest) error {
	var out SuccessResponse
	return c.postJSON(ctx, "/v1/invoices/email", inv, nil, &out)
}

func (c *SDKClient) postJSON(ctx context.Context, path string, in any, headers map[string]string, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, headers, out)
}

func (c *SDKClient) doJSON(ctx context.Context, method, path string, in any, headers map[string]string, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.AccessToken != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
