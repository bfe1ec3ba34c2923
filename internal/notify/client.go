package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jorge-barreto/mesh/internal/config"
	"github.com/jorge-barreto/mesh/internal/metrics"
	"github.com/jorge-barreto/mesh/internal/role"
)

// Client pushes notifications to peer roles. Sends are independent and
// best-effort: a peer being down is logged by the caller, never fatal, and
// never stops the remaining fan-out.
type Client struct {
	Self role.Role
	Cfg  *config.Config

	// HTTPClient may be replaced in tests.
	HTTPClient *http.Client
}

// NewClient builds a push client with a short per-send timeout.
func NewClient(self role.Role, cfg *config.Config) *Client {
	return &Client{
		Self:       self,
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify pushes a notification to one role's listener.
func (c *Client) Notify(ctx context.Context, target role.Role, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://%s/notify", c.Cfg.Addr(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifying %s: %w", target, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notifying %s: status %d", target, resp.StatusCode)
	}
	return nil
}

// Broadcast pushes a notification to every other role. Failures are
// collected per peer; receivers gate on the dependency graph, so sending to
// non-dependents is harmless redundancy.
func (c *Client) Broadcast(ctx context.Context, n Notification) map[role.Role]error {
	failures := make(map[role.Role]error)
	for _, target := range role.All {
		if target == c.Self {
			continue
		}
		if err := c.Notify(ctx, target, n); err != nil {
			metrics.BroadcastFailures.Inc()
			failures[target] = err
		}
	}
	return failures
}

// Status queries a role's /status endpoint.
func (c *Client) Status(ctx context.Context, target role.Role) (map[string]string, error) {
	var out map[string]string
	if err := c.getJSON(ctx, target, "/status", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Artifacts queries a role's /artifacts endpoint.
func (c *Client) Artifacts(ctx context.Context, target role.Role) ([]string, error) {
	var out struct {
		Artifacts []string `json:"artifacts"`
	}
	if err := c.getJSON(ctx, target, "/artifacts", &out); err != nil {
		return nil, err
	}
	return out.Artifacts, nil
}

func (c *Client) getJSON(ctx context.Context, target role.Role, path string, out any) error {
	url := fmt.Sprintf("http://%s%s", c.Cfg.Addr(target), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("querying %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("querying %s: status %d", target, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
