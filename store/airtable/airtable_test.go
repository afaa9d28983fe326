package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ytimport/httpx"
	"ytimport/retry"
	"ytimport/schema"
	"ytimport/store"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	hc := httpx.New(&httpx.Config{
		Timeout: 5 * time.Second,
		Retry:   retry.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1},
	})
	return New("appTEST", "pat-secret", hc).WithBaseURL(srv.URL)
}

func metaBody(tables ...metaTable) []byte {
	b, _ := json.Marshal(metaTablesResponse{Tables: tables})
	return b
}

func videosTable() metaTable {
	return metaTable{
		ID:   "tblV1",
		Name: "Videos",
		Fields: []metaField{
			{ID: "fldT", Name: "Title", Type: "singleLineText"},
			{ID: "fldG", Name: "Video Tags", Type: "multipleSelects", Options: &metaOpts{
				Choices: []metaChoice{{ID: "selA", Name: "music", Color: "blueBright"}},
			}},
		},
	}
}

func TestEnsureTableSkipsExisting(t *testing.T) {
	var created bool
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v0/meta/bases/appTEST/tables":
			if got := r.Header.Get("Authorization"); got != "Bearer pat-secret" {
				t.Errorf("Authorization = %q", got)
			}
			w.Write(metaBody(videosTable()))
		case r.Method == http.MethodPost:
			created = true
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	err := c.EnsureTable(context.Background(), "Videos", schema.FieldSpec{Name: "Title", Kind: schema.KindSingleLineText})
	if err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if created {
		t.Error("EnsureTable created a table that already exists")
	}
}

func TestEnsureTableCreatesMissing(t *testing.T) {
	var createdBody map[string]any
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write(metaBody())
		case r.Method == http.MethodPost && r.URL.Path == "/v0/meta/bases/appTEST/tables":
			raw, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(raw, &createdBody); err != nil {
				t.Fatalf("create body: %v", err)
			}
			w.Write([]byte(`{"id":"tblNew"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	err := c.EnsureTable(context.Background(), "Channels", schema.FieldSpec{Name: "Channel Name", Kind: schema.KindSingleLineText})
	if err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if createdBody["name"] != "Channels" {
		t.Errorf("created table name = %v", createdBody["name"])
	}
	fields, _ := createdBody["fields"].([]any)
	if len(fields) != 1 {
		t.Fatalf("created with %d fields, want 1", len(fields))
	}
}

func TestListFieldsIncludesChoices(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(metaBody(videosTable()))
	}))

	fields, err := c.ListFields(context.Background(), "Videos")
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[1].Kind != schema.KindMultipleSelects || len(fields[1].Choices) != 1 || fields[1].Choices[0].Name != "music" {
		t.Errorf("select field decoded wrong: %+v", fields[1])
	}
}

func TestListFieldsUnknownTable(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(metaBody(videosTable()))
	}))

	_, err := c.ListFields(context.Background(), "Nope")
	if !errors.Is(err, store.ErrTableNotFound) {
		t.Errorf("error = %v, want ErrTableNotFound", err)
	}
}

func TestCreateFieldSendsOptions(t *testing.T) {
	var body map[string]any
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(metaBody(videosTable()))
		case http.MethodPost:
			if r.URL.Path != "/v0/meta/bases/appTEST/tables/tblV1/fields" {
				t.Errorf("create field path = %s", r.URL.Path)
			}
			raw, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("field body: %v", err)
			}
			w.Write([]byte(`{"id":"fldNew"}`))
		}
	}))

	spec := schema.FieldSpec{Name: "View Count", Kind: schema.KindNumber, Description: "Lifetime views"}
	if err := c.CreateField(context.Background(), "Videos", spec); err != nil {
		t.Fatalf("CreateField: %v", err)
	}
	if body["type"] != "number" || body["description"] != "Lifetime views" {
		t.Errorf("field payload = %v", body)
	}
	opts, _ := body["options"].(map[string]any)
	if opts == nil || opts["precision"] != float64(0) {
		t.Errorf("number options = %v", body["options"])
	}
}

func TestUpdateFieldChoicesPreservesExisting(t *testing.T) {
	var body map[string]any
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(metaBody(videosTable()))
		case http.MethodPatch:
			if r.URL.Path != "/v0/meta/bases/appTEST/tables/tblV1/fields/fldG" {
				t.Errorf("patch path = %s", r.URL.Path)
			}
			raw, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("patch body: %v", err)
			}
			w.Write([]byte(`{}`))
		}
	}))

	add := []schema.Choice{{Name: "gaming", Color: "tealBright"}}
	if err := c.UpdateFieldChoices(context.Background(), "Videos", "Video Tags", add); err != nil {
		t.Fatalf("UpdateFieldChoices: %v", err)
	}

	opts, _ := body["options"].(map[string]any)
	choices, _ := opts["choices"].([]any)
	if len(choices) != 2 {
		t.Fatalf("got %d choices, want existing plus new", len(choices))
	}
	first, _ := choices[0].(map[string]any)
	if first["id"] != "selA" {
		t.Errorf("existing choice id dropped: %v", first)
	}
	second, _ := choices[1].(map[string]any)
	if second["name"] != "gaming" || second["id"] != nil {
		t.Errorf("new choice payload = %v", second)
	}
}

func TestUpdateFieldChoicesNoop(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	if err := c.UpdateFieldChoices(context.Background(), "Videos", "Video Tags", nil); err != nil {
		t.Fatalf("UpdateFieldChoices: %v", err)
	}
}

func TestCreateRecordsBatchesByTen(t *testing.T) {
	var batches [][]recordPayload
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/appTEST/Videos" {
			t.Errorf("records path = %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var req createRecordsRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Fatalf("records body: %v", err)
		}
		if !req.Typecast {
			t.Error("typecast not set")
		}
		batches = append(batches, req.Records)

		resp := createRecordsResponse{}
		for i := range req.Records {
			resp.Records = append(resp.Records, struct {
				ID string `json:"id"`
			}{ID: "rec" + string(rune('A'+len(batches)*16+i))})
		}
		b, _ := json.Marshal(resp)
		w.Write(b)
	}))

	rows := make([]store.Fields, 23)
	for i := range rows {
		rows[i] = store.Fields{"Title": i}
	}
	ids, err := c.CreateRecords(context.Background(), "Videos", rows)
	if err != nil {
		t.Fatalf("CreateRecords: %v", err)
	}
	if len(ids) != 23 {
		t.Errorf("got %d ids, want 23", len(ids))
	}
	if len(batches) != 3 || len(batches[0]) != 10 || len(batches[2]) != 3 {
		t.Errorf("batch sizes wrong: %d batches", len(batches))
	}
}

func TestCreateRecordsServerError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"INVALID_REQUEST"}}`, http.StatusUnprocessableEntity)
	}))

	_, err := c.CreateRecords(context.Background(), "Videos", []store.Fields{{"Title": "x"}})
	var he *httpx.HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("error = %v, want wrapped HTTPError 422", err)
	}
}
