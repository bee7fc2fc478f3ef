package rest

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

	"github.com/nhle/followup/internal/model"
)

// StatusError is returned when the REST API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("REST PATCH failed (%d): %s", e.StatusCode, e.Body)
}

// Client is a thin HTTP client for the Outlook mail REST API v2.0.
// Each call carries its own bearer token and base URL because both are
// issued by the mailbox per send attempt. Requests are never retried.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a REST client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a REST client around an existing http.Client.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// PatchFlag sets the follow-up flag on the message identified by restID.
// baseURL is the mailbox REST root (without /v2.0).
func (c *Client) PatchFlag(
	ctx context.Context,
	baseURL string,
	restID string,
	token string,
	dates model.FlagDates,
) error {
	body := PatchMessageRequest{
		Flag: FollowupFlag{
			FlagStatus: FlagStatusFlagged,
			StartDateTime: DateTimeTimeZone{
				DateTime: dates.StartDate,
				TimeZone: timeZoneUTC,
			},
			DueDateTime: DateTimeTimeZone{
				DateTime: dates.DueDate,
				TimeZone: timeZoneUTC,
			},
		},
	}

	path := "/v2.0/me/messages/" + url.PathEscape(restID)
	return c.do(ctx, http.MethodPatch, strings.TrimRight(baseURL, "/")+path, token, body)
}

// do builds the request, sends it with bearer authorization and turns
// any non-2xx response into a StatusError.
func (c *Client) do(
	ctx context.Context,
	method string,
	target string,
	token string,
	body interface{},
) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, method, target, bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	return nil
}
