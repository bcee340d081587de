// Package registration provides the HTTP client side of the
// registration handshake: one POST of the public key to the server's
// well-known registration path.
package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RegistrationClient = (*Client)(nil)

const (
	defaultTimeout = 15 * time.Second

	// maxAckBytes bounds how much of a response body is read. A sane
	// acknowledgment is a few hundred bytes.
	maxAckBytes = 1 << 20
)

// Client submits registration requests over HTTP.
type Client struct {
	httpc *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Useful for tests
// and custom timeouts.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpc = c
	}
}

// NewClient creates a registration client with a default 15s timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpc: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register POSTs the request to <ServerURL>/register and decodes the
// acknowledgment. Transport failures and non-2xx statuses wrap
// domain.ErrNetwork; a success body that does not decode into a valid
// ack wraps domain.ErrMalformedResponse.
func (c *Client) Register(ctx context.Context, req domain.RegistrationRequest) (*domain.RegistrationAck, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding registration request: %w", err)
	}

	endpoint := strings.TrimRight(req.ServerURL, "/") + domain.RegistrationPath
	logger.Debug("registration: POST %s kid=%s", endpoint, req.Kid)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", domain.ErrInvalidInput, endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s unreachable: %v", domain.ErrNetwork, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAckBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response from %s: %v", domain.ErrNetwork, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s: %s",
			domain.ErrNetwork, endpoint, resp.Status, summarize(data))
	}

	var ack domain.RegistrationAck
	if err := json.Unmarshal(data, &ack); err != nil {
		return nil, fmt.Errorf("%w: decoding acknowledgment from %s: %v",
			domain.ErrMalformedResponse, endpoint, err)
	}
	if err := validateAck(ack, req.Kid); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, endpoint, err)
	}

	return &ack, nil
}

// validateAck enforces the minimum ack contract: the kid is echoed and
// some client identity or token was assigned.
func validateAck(ack domain.RegistrationAck, kid string) error {
	if ack.Kid != kid {
		return fmt.Errorf("acknowledgment echoes kid %q, want %q", ack.Kid, kid)
	}
	if ack.ClientID == "" && ack.Token == "" {
		return fmt.Errorf("acknowledgment carries neither client_id nor token")
	}
	return nil
}

// summarize trims a response body for inclusion in an error message.
func summarize(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "(empty body)"
	}
	return s
}
