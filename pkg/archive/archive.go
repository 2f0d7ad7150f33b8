// Package archive provides a client for the congregation's remote
// attendance-record archive. Records are append-only; edit-mode commits go
// through an explicit partial update by id.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/NickGV/serujier/internal/logger"
	"github.com/NickGV/serujier/internal/models"
)

// FlexUshers is a string slice that can be unmarshaled from either a JSON
// array or a single string. Early records stored the usher as one plain
// string; everything since stores an array.
type FlexUshers []string

// UnmarshalJSON implements json.Unmarshaler for FlexUshers
func (f *FlexUshers) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nil
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*f = FlexUshers(many)
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*f = nil
		} else {
			*f = FlexUshers{one}
		}
		return nil
	}

	return fmt.Errorf("FlexUshers: cannot unmarshal %s", string(data))
}

// Record is the wire shape of one archived service.
type Record struct {
	ID           string                                     `json:"id,omitempty"`
	Date         string                                     `json:"date"`
	ServiceLabel string                                     `json:"serviceLabel"`
	Ushers       FlexUshers                                 `json:"ushers"`
	Totals       map[models.Category]int                    `json:"totals"`
	Rosters      map[models.Category][]models.NamedAttendee `json:"rosters"`
	GrandTotal   int                                        `json:"total"`
}

// FromModel converts an engine record to its wire shape.
func FromModel(rec models.HistoricalRecord) Record {
	return Record{
		ID:           rec.ID,
		Date:         rec.Date,
		ServiceLabel: rec.ServiceLabel,
		Ushers:       FlexUshers(rec.Ushers),
		Totals:       rec.Totals,
		Rosters:      rec.Rosters,
		GrandTotal:   rec.GrandTotal,
	}
}

// ToModel converts a wire record to the engine shape.
func (r Record) ToModel() models.HistoricalRecord {
	return models.HistoricalRecord{
		ID:           r.ID,
		Date:         r.Date,
		ServiceLabel: r.ServiceLabel,
		Ushers:       []string(r.Ushers),
		Totals:       r.Totals,
		Rosters:      r.Rosters,
		GrandTotal:   r.GrandTotal,
	}
}

// CreateResponse is the response from creating a record
type CreateResponse struct {
	ID string `json:"id"`
}

// ListResponse is the response from the record listing endpoint
type ListResponse struct {
	Records []Record `json:"records"`
}

// Client defines the interface for archive operations
type Client interface {
	// CreateRecord appends a new record and returns its id
	CreateRecord(ctx context.Context, rec Record) (string, error)
	// UpdateRecord merges rec into the stored record with the given id
	UpdateRecord(ctx context.Context, id string, rec Record) error
	// GetRecord fetches a single record by id
	GetRecord(ctx context.Context, id string) (*Record, error)
	// ListRecords lists records, optionally filtered to one day (YYYY-MM-DD)
	ListRecords(ctx context.Context, date string) ([]Record, error)
	// BaseURL returns the configured archive base URL
	BaseURL() string
}

// HTTPClient is a real HTTP client for the archive service
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new archive HTTP client. token may be empty for
// archives without authentication.
func NewHTTPClient(baseURL, token string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates an archive client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL, token string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, token: token, httpClient: httpClient, log: log}
}

// BaseURL returns the configured archive base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// ErrStatus is returned when the archive answers with a non-2xx status.
type ErrStatus struct {
	StatusCode int
	Body       string
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("archive returned status %d: %s", e.StatusCode, e.Body)
}

// doRequest executes one JSON request against the archive and decodes the
// response into out (when non-nil).
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL + path
	c.log.Debug("Archive request", "method", method, "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to archive: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Archive response", "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ErrStatus{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// CreateRecord appends a new record and returns the id assigned by the archive
func (c *HTTPClient) CreateRecord(ctx context.Context, rec Record) (string, error) {
	var resp CreateResponse
	if err := c.doRequest(ctx, http.MethodPost, "/records", rec, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("archive returned no record id")
	}
	return resp.ID, nil
}

// UpdateRecord merges rec into the stored record with the given id
func (c *HTTPClient) UpdateRecord(ctx context.Context, id string, rec Record) error {
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	return c.doRequest(ctx, http.MethodPatch, "/records/"+url.PathEscape(id), rec, nil)
}

// GetRecord fetches a single record by id
func (c *HTTPClient) GetRecord(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("record id is required")
	}
	var rec Record
	if err := c.doRequest(ctx, http.MethodGet, "/records/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return &rec, nil
}

// ListRecords lists records, newest first, optionally filtered to one day
func (c *HTTPClient) ListRecords(ctx context.Context, date string) ([]Record, error) {
	path := "/records"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	var resp ListResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}
