package ews

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/followup/internal/model"
)

// Client posts SOAP requests to an Exchange Web Services endpoint
// using basic authentication.
type Client struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a new EWS client for the given endpoint
// (e.g., https://outlook.office365.com/EWS/Exchange.asmx).
func NewClient(endpoint, username, password string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// UpdateItemFlag sets the follow-up flag on an existing item, saving it
// without sending and overwriting any conflicting change.
func (c *Client) UpdateItemFlag(
	ctx context.Context, itemID string, dates model.FlagDates,
) error {
	body, err := render("updateFlag", requestData{
		ItemID:    itemID,
		StartDate: dates.StartDate,
		DueDate:   dates.DueDate,
	})
	if err != nil {
		return err
	}

	if _, err := c.call(ctx, "UpdateItem", body); err != nil {
		return err
	}
	return nil
}

// CreateDraft stores an RFC 5322 message in the Drafts folder and
// returns the new item's id.
func (c *Client) CreateDraft(ctx context.Context, mime []byte) (string, error) {
	body, err := render("createDraft", requestData{
		MIME: base64.StdEncoding.EncodeToString(mime),
	})
	if err != nil {
		return "", err
	}

	msg, err := c.call(ctx, "CreateItem", body)
	if err != nil {
		return "", err
	}

	id, ok := msg.FirstItemID()
	if !ok {
		return "", errors.New("EWS CreateItem response has no item id")
	}
	return id.ID, nil
}

// SendItem sends a saved item and keeps a copy in Sent Items.
func (c *Client) SendItem(ctx context.Context, itemID string) error {
	body, err := render("sendItem", requestData{ItemID: itemID})
	if err != nil {
		return err
	}

	if _, err := c.call(ctx, "SendItem", body); err != nil {
		return err
	}
	return nil
}

// call posts a SOAP envelope and parses the response. SOAP faults arrive
// with HTTP 500, so the body is parsed before the status is checked.
func (c *Client) call(
	ctx context.Context, op string, envelope string,
) (*ResponseMessage, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, strings.NewReader(envelope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", op, err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("Accept", "text/xml")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing EWS %s: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading EWS %s response: %w", op, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf(
			"EWS authentication failed (401): check the password for %s",
			c.username,
		)
	}

	msg, parseErr := parseResponse(op, respBody)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var fault *FaultError
		if errors.As(parseErr, &fault) {
			return nil, parseErr
		}
		return nil, fmt.Errorf(
			"unexpected status %d on EWS %s: %s",
			resp.StatusCode, op, string(respBody),
		)
	}
	if parseErr != nil {
		return nil, parseErr
	}

	return msg, nil
}
