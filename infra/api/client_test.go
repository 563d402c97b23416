package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/model"
)

const doc = `{
  "name": "Imm supabase",
  "id": "wf1",
  "active": true,
  "nodes": [
    {"parameters": {"url": "https://db.example/rest/v1/locaux"}, "id": "n1", "name": "Charger", "type": "n8n-nodes-base.httpRequest", "typeVersion": 4.2, "position": [0, 0]}
  ],
  "connections": {},
  "settings": {"executionOrder": "v1", "binaryMode": "separate", "timezone": "Africa/Abidjan"}
}`

func decode(t *testing.T, s string) *n8n.Workflow {
	t.Helper()
	wf, err := n8n.Decode([]byte(s))
	require.NoError(t, err)
	return wf
}

func TestFilterSettings(t *testing.T) {
	got := FilterSettings(map[string]any{"executionOrder": "v1", "binaryMode": "separate", "callerPolicy": "any"})
	assert.Equal(t, map[string]any{"executionOrder": "v1", "callerPolicy": "any"}, got)
}

func TestBuildPayload(t *testing.T) {
	p := BuildPayload(decode(t, doc))
	assert.Equal(t, "Imm supabase", p.Name)
	assert.Equal(t, map[string]any{"executionOrder": "v1", "timezone": "Africa/Abidjan"}, p.Settings)
	assert.Equal(t, "null", string(p.StaticData))

	body, err := n8n.Marshal(p)
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(body, "id").Exists())
	assert.False(t, gjson.GetBytes(body, "active").Exists())
	assert.Equal(t, "https://db.example/rest/v1/locaux", gjson.GetBytes(body, "nodes.0.parameters.url").String())
}

func TestBuildPayloadDefaults(t *testing.T) {
	p := BuildPayload(decode(t, `{"name": "x", "nodes": []}`))
	assert.Equal(t, map[string]any{"executionOrder": "v1", "callerPolicy": "workflowsFromSameOwner"}, p.Settings)
	assert.NotNil(t, p.Connections)
	assert.NotNil(t, p.Nodes)
}

func TestUpdateWorkflow(t *testing.T) {
	var gotMethod, gotPath, gotKey, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotKey = r.Header.Get(DefaultHeader)
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "wf 1",
			"name":  "Imm supabase",
			"nodes": []any{map[string]any{"id": "n1"}},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api/v1/", APIKey: "secret"})
	res, err := c.UpdateWorkflow(context.Background(), "wf 1", decode(t, doc))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/v1/workflows/wf%201", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.True(t, strings.HasPrefix(gotType, "application/json"))
	assert.Equal(t, "v1", gjson.GetBytes(gotBody, "settings.executionOrder").String())
	assert.False(t, gjson.GetBytes(gotBody, "settings.binaryMode").Exists())

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "wf 1", res.ID)
	assert.Equal(t, 1, res.Nodes)
}

func TestUpdateWorkflowBearer(t *testing.T) {
	var auth, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		key = r.Header.Get(DefaultHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret", Bearer: true})
	res, err := c.UpdateWorkflow(context.Background(), "wf1", decode(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	assert.Empty(t, key)
	assert.Empty(t, res.ID)
}

func TestUpdateWorkflowHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"`+strings.Repeat("x", 2000)+`"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.UpdateWorkflow(context.Background(), "wf1", decode(t, doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransportFailure)

	var te *model.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadRequest, te.StatusCode())
	assert.Len(t, te.Body, 500)
}

func TestUpdateWorkflowTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
	_, err := c.UpdateWorkflow(context.Background(), "wf1", decode(t, doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransportFailure)
}

func TestUpdateWorkflowNoURL(t *testing.T) {
	_, err := NewClient(Config{}).UpdateWorkflow(context.Background(), "wf1", decode(t, doc))
	assert.ErrorIs(t, err, model.ErrTransportFailure)
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	s := truncate([]byte(strings.Repeat("é", 10)), 5)
	assert.True(t, strings.HasPrefix(s, "éé"))
	assert.NotContains(t, s[:4], "�")
}
