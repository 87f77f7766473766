// Package client talks to the proposal HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the proposal API client.
type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
}

// New creates a new API client. adminToken is only needed for PurgeExpired.
func New(baseURL, adminToken string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateProposal creates a proposal and returns its links.
func (c *Client) CreateProposal(ctx context.Context, req CreateRequest) (*Created, error) {
	var created Created
	if err := c.post(ctx, "/api/proposals", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateProposal: %w", err)
	}
	return &created, nil
}

// GetProposal fetches the recipient's view.
func (c *Client) GetProposal(ctx context.Context, id string) (*Proposal, error) {
	var p Proposal
	if err := c.get(ctx, "/api/proposals/"+url.PathEscape(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetProposal: %w", err)
	}
	return &p, nil
}

// GetStatus fetches the proposer's view.
func (c *Client) GetStatus(ctx context.Context, id string) (*Status, error) {
	var s Status
	if err := c.get(ctx, "/api/proposals/"+url.PathEscape(id)+"/status", &s); err != nil {
		return nil, fmt.Errorf("client.GetStatus: %w", err)
	}
	return &s, nil
}

// Respond answers a proposal with "yes" or "no".
func (c *Client) Respond(ctx context.Context, id, response string) (*ResponseResult, error) {
	var res ResponseResult
	body := map[string]string{"response": response}
	if err := c.post(ctx, "/api/proposals/"+url.PathEscape(id)+"/response", body, &res); err != nil {
		return nil, fmt.Errorf("client.Respond: %w", err)
	}
	return &res, nil
}

// Guess submits one guess at the sender of an anonymous proposal.
func (c *Client) Guess(ctx context.Context, id, guess string) (*GuessResult, error) {
	var res GuessResult
	body := map[string]string{"guess": guess}
	if err := c.post(ctx, "/api/proposals/"+url.PathEscape(id)+"/guesses", body, &res); err != nil {
		return nil, fmt.Errorf("client.Guess: %w", err)
	}
	return &res, nil
}

// PurgeExpired deletes expired proposals and returns how many went.
func (c *Client) PurgeExpired(ctx context.Context) (int64, error) {
	var res struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.doRequest(ctx, http.MethodDelete, "/api/admin/expired", nil, &res); err != nil {
		return 0, fmt.Errorf("client.PurgeExpired: %w", err)
	}
	return res.Deleted, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminToken != "" {
		req.Header.Set("X-Admin-Token", c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
