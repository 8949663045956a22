package client

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
)

// PostJSON posts body as JSON and decodes a JSON response into result
func (c *Client) PostJSON(ctx context.Context, url string, body, result interface{}) error {
	req, id := c.request()
	resp, err := req.SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		return fmt.Errorf("POST request error: %w (url: %v)", err, url)
	}
	return handleResponse(resp, id, result)
}

// PostForm posts an url-encoded form and decodes a JSON response into result
func (c *Client) PostForm(ctx context.Context, url string, form map[string]string, result interface{}) error {
	req, id := c.request()
	resp, err := req.SetContext(ctx).SetFormData(form).Post(url)
	if err != nil {
		return fmt.Errorf("POST request error: %w (url: %v)", err, url)
	}
	return handleResponse(resp, id, result)
}

// RPCPost calls a JSON-RPC 2.0 method. A JSON-RPC error object is
// returned as *json2.Error.
func (c *Client) RPCPost(ctx context.Context, url, method string, params, result interface{}) error {
	if params == nil {
		params = struct{}{}
	}
	reqBody, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return fmt.Errorf("encode %v request error: %v", method, err)
	}
	req, id := c.request()
	resp, err := req.SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(url)
	if err != nil {
		return fmt.Errorf("POST request error: %w (url: %v, method: %v)", err, url, method)
	}
	if err = handleResponse(resp, id, nil); err != nil {
		return err
	}
	return json2.DecodeClientResponse(bytes.NewReader(resp.Body()), result)
}
