package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/subgate-cli/subgate/constant"
)

// Reply is the generic {code, msg} answer of CMS write endpoints.
type Reply struct {
	Code string
	Msg  string
}

// OK reports whether Code is the number 200, whatever its JSON spelling.
func (r *Reply) OK() bool {
	n, err := strconv.ParseFloat(r.Code, 64)
	return err == nil && n == 200
}

// Submit posts the subscription payload.
// A 2xx answer that is not JSON returns a nil Reply with a *DecodeError.
func (c *Client) Submit(ctx context.Context, payload any) (*Reply, error) {
	return c.post(ctx, "submit", c.submitPath, payload)
}

// RelayShare queues locator on the cloud download service.
func (c *Client) RelayShare(ctx context.Context, locator string) (*Reply, error) {
	return c.post(ctx, "relay", constant.RelayPath, map[string]string{"url": locator})
}

// LatestVersion returns the trimmed body of the latest-version endpoint. No token is sent.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	data, err := c.do(ctx, "latest version", http.MethodGet, constant.LatestVersionPath, nil, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Client) post(ctx context.Context, op, path string, body any) (*Reply, error) {
	data, err := c.do(ctx, op, http.MethodPost, path, body, true)
	if err != nil {
		return nil, err
	}

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	return &Reply{Code: string(env.Code), Msg: env.Msg}, nil
}
