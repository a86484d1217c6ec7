package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/formaplus/docgen/internal/logger"
)

// updateBatchSize is the remote API's per-request record limit.
const updateBatchSize = 10

// ListOptions narrows a collection fetch. FilterFormula is an opaque formula
// string built by the caller; the gateway only URL-encodes it.
type ListOptions struct {
	View          string
	FilterFormula string
	SortField     string
	SortDirection string
}

// Gateway is the record-store surface the rest of the system depends on.
type Gateway interface {
	FetchCollection(ctx context.Context, collection string, opts ListOptions) ([]Record, error)
	FetchOne(ctx context.Context, collection, id string) (Record, error)
	CreateOne(ctx context.Context, collection string, fields map[string]any) (Record, error)
	UpdateOne(ctx context.Context, collection, id string, fields map[string]any) (Record, error)
	UpdateMany(ctx context.Context, collection string, updates []RecordUpdate) ([]Record, error)
	FetchSchema(ctx context.Context, collection string) ([]FieldDef, error)
}

// Config carries the credentials and namespace the client is bound to.
// Passed explicitly at construction; nothing is read from ambient globals.
type Config struct {
	BaseURL string
	APIKey  string
	BaseID  string
	Timeout time.Duration
}

type Client struct {
	cfg       Config
	http      *http.Client
	appLogger *logger.Logger
}

func NewClient(cfg Config, appLogger *logger.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		appLogger: appLogger,
	}
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// FetchCollection follows continuation offsets until the collection is
// exhausted and returns the concatenated pages.
func (c *Client) FetchCollection(ctx context.Context, collection string, opts ListOptions) ([]Record, error) {
	const component = "Gateway"

	var all []Record
	offset := ""
	pages := 0

	for {
		q := url.Values{}
		if opts.View != "" {
			q.Set("view", opts.View)
		}
		if opts.FilterFormula != "" {
			q.Set("filterByFormula", opts.FilterFormula)
		}
		if opts.SortField != "" {
			q.Set("sort[0][field]", opts.SortField)
			dir := opts.SortDirection
			if dir == "" {
				dir = "asc"
			}
			q.Set("sort[0][direction]", dir)
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		endpoint := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, url.PathEscape(collection))
		if enc := q.Encode(); enc != "" {
			endpoint += "?" + enc
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, &DataSourceError{Collection: collection, Op: "list", Err: err}
		}

		all = append(all, page.Records...)
		pages++

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	c.appLogger.Debug(component, "Fetched collection: name=%s records=%d pages=%d", collection, len(all), pages)
	return all, nil
}

func (c *Client) FetchOne(ctx context.Context, collection, id string) (Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, url.PathEscape(collection), url.PathEscape(id))

	var rec Record
	err := c.do(ctx, http.MethodGet, endpoint, nil, &rec)
	if err != nil {
		if isNotFound(err) {
			return Record{}, &RecordNotFoundError{Collection: collection, RecordID: id}
		}
		return Record{}, &DataSourceError{Collection: collection, RecordID: id, Op: "get", Err: err}
	}
	return rec, nil
}

func (c *Client) CreateOne(ctx context.Context, collection string, fields map[string]any) (Record, error) {
	const component = "Gateway"
	endpoint := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, url.PathEscape(collection))

	body := map[string]any{"fields": fields}
	var rec Record
	if err := c.do(ctx, http.MethodPost, endpoint, body, &rec); err != nil {
		return Record{}, &DataSourceError{Collection: collection, Op: "create", Err: err}
	}

	c.appLogger.Debug(component, "Created record: collection=%s id=%s", collection, rec.ID)
	return rec, nil
}

func (c *Client) UpdateOne(ctx context.Context, collection, id string, fields map[string]any) (Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, url.PathEscape(collection), url.PathEscape(id))

	body := map[string]any{"fields": fields}
	var rec Record
	if err := c.do(ctx, http.MethodPatch, endpoint, body, &rec); err != nil {
		if isNotFound(err) {
			return Record{}, &RecordNotFoundError{Collection: collection, RecordID: id}
		}
		return Record{}, &DataSourceError{Collection: collection, RecordID: id, Op: "update", Err: err}
	}
	return rec, nil
}

// UpdateMany writes partial fields to several records, chunked at the remote
// API's per-request limit.
func (c *Client) UpdateMany(ctx context.Context, collection string, updates []RecordUpdate) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, url.PathEscape(collection))

	var all []Record
	for start := 0; start < len(updates); start += updateBatchSize {
		end := start + updateBatchSize
		if end > len(updates) {
			end = len(updates)
		}

		body := map[string]any{"records": updates[start:end]}
		var page listResponse
		if err := c.do(ctx, http.MethodPatch, endpoint, body, &page); err != nil {
			return all, &DataSourceError{Collection: collection, Op: "updateMany", Err: err}
		}
		all = append(all, page.Records...)
	}
	return all, nil
}

type schemaResponse struct {
	Tables []struct {
		Name   string     `json:"name"`
		Fields []FieldDef `json:"fields"`
	} `json:"tables"`
}

// FetchSchema resolves the declared field list of a collection via the
// metadata endpoint.
func (c *Client) FetchSchema(ctx context.Context, collection string) ([]FieldDef, error) {
	endpoint := fmt.Sprintf("%s/meta/bases/%s/tables", c.cfg.BaseURL, c.cfg.BaseID)

	var meta schemaResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &meta); err != nil {
		return nil, &DataSourceError{Collection: collection, Op: "schema", Err: err}
	}

	for _, table := range meta.Tables {
		if table.Name == collection {
			return table.Fields, nil
		}
	}
	return nil, &DataSourceError{Collection: collection, Op: "schema", Err: fmt.Errorf("collection not present in base schema")}
}

type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.status, e.body)
}

func isNotFound(err error) bool {
	se, ok := err.(*httpStatusError)
	return ok && se.status == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &httpStatusError{status: resp.StatusCode, body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
