package client

import (
	"context"
	"fmt"
)

// Get requests url with the given query parameters and decodes a JSON
// body into result
func (c *Client) Get(ctx context.Context, url string, params map[string]string, result interface{}) error {
	req, id := c.request()
	resp, err := req.SetContext(ctx).SetQueryParams(params).Get(url)
	if err != nil {
		return fmt.Errorf("GET request error: %w (url: %v, params: %v)", err, url, params)
	}
	return handleResponse(resp, id, result)
}
