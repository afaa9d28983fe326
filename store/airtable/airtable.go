// Package airtable implements the destination table store against the
// Airtable Web API: the base metadata API for tables and fields, the records
// API for row inserts. Requests go through the shared rate-limited HTTP
// client; Airtable allows five requests per second per base.
package airtable

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsonenc "github.com/goccy/go-json"

	"ytimport/httpx"
	"ytimport/schema"
	"ytimport/store"
)

const defaultBaseURL = "https://api.airtable.com"

// recordBatchSize is Airtable's ceiling on records per create call.
const recordBatchSize = 10

// Client is an Airtable-backed store.TableStore.
type Client struct {
	baseURL string
	baseID  string
	token   string
	http    *httpx.Client
}

// New creates a client for one Airtable base. The token is a personal access
// token with schema and record write scopes.
func New(baseID, token string, httpClient *httpx.Client) *Client {
	if httpClient == nil {
		httpClient = httpx.New(nil)
	}
	return &Client{
		baseURL: defaultBaseURL,
		baseID:  baseID,
		token:   token,
		http:    httpClient,
	}
}

// WithBaseURL points the client at a different API host (used in tests).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// Wire shapes for the metadata API.

type metaTablesResponse struct {
	Tables []metaTable `json:"tables"`
}

type metaTable struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Fields []metaField `json:"fields"`
}

type metaField struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Options *metaOpts `json:"options,omitempty"`
}

type metaOpts struct {
	Choices []metaChoice `json:"choices,omitempty"`
}

type metaChoice struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// EnsureTable creates the table with the given primary field when the base
// does not have it yet.
func (c *Client) EnsureTable(ctx context.Context, table string, primary schema.FieldSpec) error {
	existing, err := c.metaTables(ctx)
	if err != nil {
		return err
	}
	if _, ok := findTable(existing, table); ok {
		return nil
	}

	opts, err := schema.OptionsFor(primary.Kind)
	if err != nil {
		return &store.StoreError{Op: "ensure table", Entity: table, Err: err}
	}

	payload := map[string]any{
		"name": table,
		"fields": []map[string]any{
			fieldPayload(primary.Name, primary.Kind, opts),
		},
	}
	if err := c.postJSON(ctx, c.metaURL("tables"), payload, nil); err != nil {
		return &store.StoreError{Op: "ensure table", Entity: table, Err: err}
	}
	return nil
}

// ListFields reports the table's fields, including select choice sets.
func (c *Client) ListFields(ctx context.Context, table string) ([]schema.ExistingField, error) {
	t, err := c.findMetaTable(ctx, table)
	if err != nil {
		return nil, err
	}

	fields := make([]schema.ExistingField, 0, len(t.Fields))
	for _, f := range t.Fields {
		ef := schema.ExistingField{Name: f.Name, Kind: schema.FieldKind(f.Type)}
		if f.Options != nil {
			for _, ch := range f.Options.Choices {
				ef.Choices = append(ef.Choices, schema.Choice{Name: ch.Name, Color: ch.Color})
			}
		}
		fields = append(fields, ef)
	}
	return fields, nil
}

// CreateField adds a field with its canonical options.
func (c *Client) CreateField(ctx context.Context, table string, spec schema.FieldSpec) error {
	t, err := c.findMetaTable(ctx, table)
	if err != nil {
		return err
	}

	opts, err := schema.OptionsFor(spec.Kind)
	if err != nil {
		return &store.StoreError{Op: "create field", Entity: spec.Name, Err: err}
	}

	payload := fieldPayload(spec.Name, spec.Kind, opts)
	if spec.Description != "" {
		payload["description"] = spec.Description
	}
	if err := c.postJSON(ctx, c.metaURL("tables/"+t.ID+"/fields"), payload, nil); err != nil {
		return &store.StoreError{Op: "create field", Entity: spec.Name, Err: err}
	}
	return nil
}

// UpdateFieldChoices appends choices to a select field. Airtable's field
// update replaces the option payload wholesale, so the current choices are
// resent with the additions; existing choice ids are preserved to avoid
// recreating them.
func (c *Client) UpdateFieldChoices(ctx context.Context, table, fieldName string, add []schema.Choice) error {
	if len(add) == 0 {
		return nil
	}

	t, err := c.findMetaTable(ctx, table)
	if err != nil {
		return err
	}

	var field *metaField
	for i := range t.Fields {
		if t.Fields[i].Name == fieldName {
			field = &t.Fields[i]
			break
		}
	}
	if field == nil {
		return &store.StoreError{Op: "update choices", Entity: fieldName, Err: store.ErrFieldNotFound}
	}

	choices := []metaChoice{}
	if field.Options != nil {
		choices = append(choices, field.Options.Choices...)
	}
	for _, ch := range add {
		choices = append(choices, metaChoice{Name: ch.Name, Color: ch.Color})
	}

	payload := map[string]any{
		"options": map[string]any{"choices": choices},
	}
	if err := c.patchJSON(ctx, c.metaURL("tables/"+t.ID+"/fields/"+field.ID), payload); err != nil {
		return &store.StoreError{Op: "update choices", Entity: fieldName, Err: err}
	}
	return nil
}

type createRecordsRequest struct {
	Records  []recordPayload `json:"records"`
	Typecast bool            `json:"typecast"`
}

type recordPayload struct {
	Fields store.Fields `json:"fields"`
}

type createRecordsResponse struct {
	Records []struct {
		ID string `json:"id"`
	} `json:"records"`
}

// CreateRecords inserts rows in batches of ten and returns the new record
// ids in input order.
func (c *Client) CreateRecords(ctx context.Context, table string, rows []store.Fields) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v0/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))

	var ids []string
	for len(rows) > 0 {
		batch := rows
		if len(batch) > recordBatchSize {
			batch = rows[:recordBatchSize]
		}
		rows = rows[len(batch):]

		req := createRecordsRequest{Typecast: true}
		for _, row := range batch {
			req.Records = append(req.Records, recordPayload{Fields: row})
		}

		var resp createRecordsResponse
		if err := c.postJSON(ctx, endpoint, req, &resp); err != nil {
			return ids, &store.StoreError{Op: "create records", Entity: table, Err: err}
		}
		for _, r := range resp.Records {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (c *Client) metaURL(suffix string) string {
	return fmt.Sprintf("%s/v0/meta/bases/%s/%s", c.baseURL, c.baseID, suffix)
}

func (c *Client) metaTables(ctx context.Context) ([]metaTable, error) {
	resp, err := c.http.Do(ctx, http.MethodGet, c.metaURL("tables"), nil, c.headers())
	if err != nil {
		return nil, &store.StoreError{Op: "list tables", Entity: c.baseID, Err: err}
	}

	var decoded metaTablesResponse
	if err := jsonenc.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, &store.StoreError{Op: "list tables", Entity: c.baseID, Err: err}
	}
	return decoded.Tables, nil
}

func (c *Client) findMetaTable(ctx context.Context, table string) (*metaTable, error) {
	tables, err := c.metaTables(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := findTable(tables, table)
	if !ok {
		return nil, &store.StoreError{Op: "find table", Entity: table, Err: store.ErrTableNotFound}
	}
	return t, nil
}

func findTable(tables []metaTable, name string) (*metaTable, bool) {
	for i := range tables {
		if tables[i].Name == name {
			return &tables[i], true
		}
	}
	return nil, false
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	return c.sendJSON(ctx, http.MethodPost, endpoint, payload, out)
}

func (c *Client) patchJSON(ctx context.Context, endpoint string, payload any) error {
	return c.sendJSON(ctx, http.MethodPatch, endpoint, payload, nil)
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint string, payload any, out any) error {
	body, err := jsonenc.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, method, endpoint, func() io.Reader {
		return strings.NewReader(string(body))
	}, c.headers())
	if err != nil {
		return err
	}

	if out != nil {
		if err := jsonenc.Unmarshal(resp.Body, out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.token,
		"Content-Type":  "application/json",
	}
}

// fieldPayload builds the create-field body; nil options are omitted since
// Airtable rejects empty option objects for optionless types.
func fieldPayload(name string, kind schema.FieldKind, opts schema.FieldOptions) map[string]any {
	payload := map[string]any{
		"name": name,
		"type": string(kind),
	}
	if opts != nil {
		payload["options"] = opts
	}
	return payload
}
