package inv_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhruv-4604/inventory-cli/internal/inv"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *inv.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := inv.DefaultConfig()
	cfg.APIURL = srv.URL
	cfg.APIToken = "secret"
	return inv.NewClient(cfg, nil)
}

func mustResource(t *testing.T, name string) *inv.Resource {
	t.Helper()
	res, err := inv.LookupResource(name)
	require.NoError(t, err)
	return res
}

func TestClient_ListUnwrapsEnvelope(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/items", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		io.WriteString(w, `{"data":[
			{"id":1,"sku":"A-1","name":"Bolt","quantity":5,"price":"1.50"},
			{"id":"x2","sku":"A-2","name":"Nut","quantity":0,"price":0.25}
		]}`)
	}))

	records, err := client.List(context.Background(), mustResource(t, "items"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1", records[0]["id"])
	assert.Equal(t, "Bolt", records[0]["name"])
	assert.Equal(t, float64(5), records[0]["quantity"])
	assert.Equal(t, json.Number("1.5"), records[0]["price"])
	assert.Equal(t, "x2", records[1]["id"])

	assert.Equal(t, "Bearer secret", gotAuth)
	_, err = uuid.Parse(gotRequestID)
	assert.NoError(t, err, "X-Request-Id should be a UUID")
}

func TestClient_ListBareArray(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":3,"name":"Hardware"}]`)
	}))

	records, err := client.List(context.Background(), mustResource(t, "categories"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Hardware", records[0]["name"])
}

func TestClient_CreateUpdateDelete(t *testing.T) {
	var calls []string
	var created map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
		case http.MethodPut:
			io.WriteString(w, `{"id":7,"name":"Renamed","email":"a@b.co"}`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	res := mustResource(t, "customers")
	ctx := context.Background()

	payload, err := inv.BuildPayload(res, map[string]string{"name": "Ada", "credit_limit": "1500"}, false)
	require.NoError(t, err)
	rec, err := client.Create(ctx, res, payload)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, "Ada", created["name"])
	assert.Equal(t, float64(1500), created["credit_limit"])

	rec, err = client.Update(ctx, res, "7", map[string]any{"name": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", rec["name"])

	require.NoError(t, client.Delete(ctx, res, "7"))

	assert.Equal(t, []string{"POST /customers", "PUT /customers/7", "DELETE /customers/7"}, calls)
}

func TestClient_APIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"json message", http.StatusNotFound, `{"message":"no such item"}`, "no such item"},
		{"json error key", http.StatusBadRequest, `{"error":"sku taken"}`, "sku taken"},
		{"plain text", http.StatusInternalServerError, "boom", "boom"},
		{"empty body", http.StatusServiceUnavailable, "", "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))

			_, err := client.Get(context.Background(), mustResource(t, "items"), "9")
			require.Error(t, err)

			var apiErr *inv.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Contains(t, err.Error(), "get Item 9: API error")
		})
	}
}

func TestClient_InvalidJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))

	_, err := client.List(context.Background(), mustResource(t, "items"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestClient_GetEscapesID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/A%2F1", r.URL.EscapedPath())
		io.WriteString(w, `{"id":"A/1","sku":"A/1"}`)
	}))

	rec, err := client.Get(context.Background(), mustResource(t, "items"), "A/1")
	require.NoError(t, err)
	assert.Equal(t, "A/1", rec["sku"])
}

func TestClient_Ping(t *testing.T) {
	ok := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "[]")
	}))
	_, err := ok.Ping(context.Background())
	assert.NoError(t, err)

	down := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	_, err = down.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection failed")
}
