package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{APIKey: "secret_test", BaseURL: server.URL})
	require.NoError(t, err)
	return client, server
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRetrieveSchema(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/databases/db-1", r.URL.Path)
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Notion-Version"))

		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"properties": map[string]any{
				"name":        map[string]any{"id": "title", "type": "title"},
				"field":       map[string]any{"id": "f1", "type": "select"},
				"process":     map[string]any{"id": "p1", "type": "select"},
				"function":    map[string]any{"id": "fn1", "type": "select"},
				"start":       map[string]any{"id": "s1", "type": "date"},
				"end":         map[string]any{"id": "e1", "type": "date"},
				"description": map[string]any{"id": "d1", "type": "rich_text"},
				"priority":    map[string]any{"id": "pr1", "type": "select"},
				"progress":    map[string]any{"id": "pg1", "type": "number"},
			},
		})
	}))

	schema, err := client.RetrieveSchema(context.Background(), "db-1")
	require.NoError(t, err)
	assert.Equal(t, "name", schema.TitleProperty)
	assert.Equal(t, "pg1", schema.PropertyIDs["progress"])
	require.NoError(t, schema.Validate())
}

func TestRetrieveSchemaNoTitleProperty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"properties": map[string]any{
				"field": map[string]any{"id": "f1", "type": "select"},
			},
		})
	}))

	_, err := client.RetrieveSchema(context.Background(), "db-1")
	require.ErrorIs(t, err, ErrNoTitleProperty)
}

func TestSchemaValidateMissingProperty(t *testing.T) {
	schema := Schema{
		TitleProperty: "name",
		PropertyIDs:   map[string]string{"name": "title"},
	}
	err := schema.Validate()
	require.ErrorIs(t, err, ErrMissingProperty)
}

func TestQueryRecords(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/databases/db-1/query", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"results": []map[string]any{
				{
					"id": "page-1",
					"properties": map[string]any{
						"name": map[string]any{
							"title": []map[string]any{{"plain_text": "기존 업무"}},
						},
					},
				},
				{
					// a record whose title was cleared
					"id": "page-2",
					"properties": map[string]any{
						"name": map[string]any{"title": []any{}},
					},
				},
			},
		})
	}))

	rows, err := client.QueryRecords(context.Background(), "db-1", Schema{TitleProperty: "name"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, RecordRow{ID: "page-1", Title: "기존 업무"}, rows[0])
	assert.Equal(t, RecordRow{ID: "page-2", Title: ""}, rows[1])
}

func TestCreateAndUpdatePage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/pages":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			parent := req["parent"].(map[string]any)
			assert.Equal(t, "db-1", parent["database_id"])
			json.NewEncoder(w).Encode(map[string]any{"id": "page-new"}) //nolint:errcheck
		case r.Method == http.MethodPatch && r.URL.Path == "/v1/pages/page-1":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req, "properties")
			json.NewEncoder(w).Encode(map[string]any{"id": "page-1"}) //nolint:errcheck
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	id, err := client.CreatePage(context.Background(), "db-1", map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, "page-new", id)

	err = client.UpdatePage(context.Background(), "page-1", map[string]any{"title": "y"})
	require.NoError(t, err)
}

func TestPageText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/blocks/page-1/children":
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"results": []map[string]any{
					{
						"id":   "b1",
						"type": "heading_1",
						"heading_1": map[string]any{
							"rich_text": []map[string]any{{"plain_text": "주간 회의"}},
						},
					},
					{
						"id":           "b2",
						"type":         "paragraph",
						"has_children": true,
						"paragraph": map[string]any{
							"rich_text": []map[string]any{
								{"plain_text": "태그 알림 "},
								{"plain_text": "기능 논의"},
							},
						},
					},
					{
						// empty paragraph, dropped
						"id":        "b3",
						"type":      "paragraph",
						"paragraph": map[string]any{"rich_text": []any{}},
					},
				},
				"has_more": false,
			})
		case "/v1/blocks/b2/children":
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"results": []map[string]any{
					{
						"id":   "b2-1",
						"type": "bulleted_list_item",
						"bulleted_list_item": map[string]any{
							"rich_text": []map[string]any{{"plain_text": "QA 일정 확정"}},
						},
					},
				},
				"has_more": false,
			})
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))

	text, err := client.PageText(context.Background(), "page-1")
	require.NoError(t, err)
	assert.Equal(t, "# 주간 회의\n태그 알림 기능 논의\nQA 일정 확정", text)
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}}) //nolint:errcheck
	}))

	_, err := client.QueryRecords(context.Background(), "db-1", Schema{TitleProperty: "name"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDoSurfacesAPIErrors(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"object":  "error",
			"status":  404,
			"code":    "object_not_found",
			"message": "Could not find database",
		})
	}))

	_, err := client.RetrieveSchema(context.Background(), "missing")
	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "Could not find database")
}
