package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quizgate/internal/domain"
)

// Client talks to the role directory over its REST surface:
//
//	GET    /users/{userID}/roles/{roleID}  -> 204 held, 404 not held
//	PUT    /users/{userID}/roles/{roleID}  -> 204 added
//	DELETE /users/{userID}/roles/{roleID}  -> 204 removed
//
// 403 maps to domain.ErrRoleForbidden; transport failures map to
// domain.ErrDirectoryUnavailable.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) HasRole(ctx context.Context, userID, roleID string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, userID, roleID)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusForbidden:
		return false, domain.ErrRoleForbidden
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	}
	return false, fmt.Errorf("directory role check: unexpected status %d", resp.StatusCode)
}

func (c *Client) AddRole(ctx context.Context, userID, roleID string) error {
	return c.mutate(ctx, http.MethodPut, userID, roleID)
}

func (c *Client) RemoveRole(ctx context.Context, userID, roleID string) error {
	return c.mutate(ctx, http.MethodDelete, userID, roleID)
}

func (c *Client) mutate(ctx context.Context, method, userID, roleID string) error {
	resp, err := c.do(ctx, method, userID, roleID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return domain.ErrRoleForbidden
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	}
	return fmt.Errorf("directory %s: unexpected status %d", method, resp.StatusCode)
}

func (c *Client) do(ctx context.Context, method, userID, roleID string) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/users/%s/roles/%s", c.base, url.PathEscape(userID), url.PathEscape(roleID))
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
	}
	return resp, nil
}
