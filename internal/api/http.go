package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"scoutsync/internal/models"
)

// Attachment uploads and bulk pushes can arrive in bursts at the end of a
// competition day; pace requests so a queue of buffered images does not
// hammer the event network.
const (
	requestsPerSecond = 8
	requestBurst      = 4
)

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New returns a client for the server at baseURL (scheme://host[:port]).
func New(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// doJSON performs one request. A non-nil body is sent as JSON; a non-nil
// out receives the decoded response body.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", ErrBadStatus, method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (c *HTTPClient) EventInfo(ctx context.Context) (*models.EventInfo, error) {
	var info models.EventInfo
	if err := c.doJSON(ctx, http.MethodGet, "/api/event/matches", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) EntryFields(ctx context.Context, kind models.RecordKind) (models.EntryFields, error) {
	var fields json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/"+string(kind)+"/fields", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (c *HTTPClient) UploadEntries(ctx context.Context, kind models.RecordKind, records any) error {
	return c.doJSON(ctx, http.MethodPut, "/api/"+string(kind)+"/data/all", records, nil)
}

func (c *HTTPClient) FilteredEntries(ctx context.Context, kind models.RecordKind, markers any) (json.RawMessage, error) {
	var records json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/"+string(kind)+"/data/filtered", markers, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) UploadImage(ctx context.Context, image models.ImageUpload) error {
	// The server takes an array body of one element.
	return c.doJSON(ctx, http.MethodPut, "/api/images", []models.ImageUpload{image}, nil)
}

func (c *HTTPClient) Leaderboard(ctx context.Context) (json.RawMessage, error) {
	var board json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/leaderboard", nil, &board); err != nil {
		return nil, err
	}
	return board, nil
}
