package api

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

	"github.com/Tsinling0525/flowpatch/format/n8n"
	"github.com/Tsinling0525/flowpatch/model"
)

const (
	DefaultHeader  = "X-N8N-API-KEY"
	DefaultTimeout = 60 * time.Second

	maxErrorBody = 500
)

// AllowedSettings are the workflow settings the public API accepts on
// update. Anything else is dropped before the request is sent.
var AllowedSettings = []string{
	"executionOrder",
	"timezone",
	"saveManualExecutions",
	"saveDataErrorExecution",
	"saveDataSuccessExecution",
	"saveExecutionProgress",
	"executionTimeout",
	"callerPolicy",
}

// DefaultSettings stand in when the document carries no settings at all.
func DefaultSettings() map[string]any {
	return map[string]any{
		"executionOrder": "v1",
		"binaryMode":     "separate",
		"availableInMCP": false,
		"timeSavedMode":  "fixed",
		"callerPolicy":   "workflowsFromSameOwner",
	}
}

// FilterSettings keeps only the AllowedSettings keys.
func FilterSettings(settings map[string]any) map[string]any {
	out := make(map[string]any, len(AllowedSettings))
	for _, k := range AllowedSettings {
		if v, ok := settings[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Payload is the body of PUT /workflows/{id}.
type Payload struct {
	Name        string          `json:"name"`
	Nodes       []n8n.Node      `json:"nodes"`
	Connections n8n.Connections `json:"connections"`
	Settings    map[string]any  `json:"settings"`
	StaticData  json.RawMessage `json:"staticData"`
}

func BuildPayload(wf *n8n.Workflow) Payload {
	settings := wf.Settings
	if settings == nil {
		settings = DefaultSettings()
	}
	p := Payload{
		Name:        wf.Name,
		Nodes:       wf.Nodes,
		Connections: wf.Connections,
		Settings:    FilterSettings(settings),
		StaticData:  wf.StaticData,
	}
	if p.Nodes == nil {
		p.Nodes = []n8n.Node{}
	}
	if p.Connections == nil {
		p.Connections = n8n.Connections{}
	}
	if len(p.StaticData) == 0 {
		p.StaticData = json.RawMessage("null")
	}
	return p
}

type Config struct {
	BaseURL string
	APIKey  string
	// Header carries the token. Defaults to X-N8N-API-KEY.
	Header string
	// Bearer sends "Authorization: Bearer <key>" instead of Header.
	Bearer  bool
	Timeout time.Duration
}

// Client talks to the n8n public REST API.
type Client struct {
	cfg Config
	cl  *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Header == "" {
		cfg.Header = DefaultHeader
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, cl: &http.Client{Timeout: cfg.Timeout}}
}

// Result summarises the workflow the server sent back.
type Result struct {
	Status int
	ID     string
	Name   string
	Nodes  int
}

// UpdateWorkflow PUTs wf over the remote workflow id. A non-2xx answer is a
// *model.TransportError; network failures and timeouts wrap
// model.ErrTransportFailure. There is no retry.
func (c *Client) UpdateWorkflow(ctx context.Context, id string, wf *n8n.Workflow) (*Result, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: no API URL configured", model.ErrTransportFailure)
	}
	body, err := n8n.Marshal(BuildPayload(wf))
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	endpoint := c.cfg.BaseURL + "/workflows/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTransportFailure, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.cfg.Bearer {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	} else {
		req.Header.Set(c.cfg.Header, c.cfg.APIKey)
	}

	res, err := c.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: PUT %s: %v", model.ErrTransportFailure, endpoint, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", model.ErrTransportFailure, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &model.TransportError{Status: res.StatusCode, Body: truncate(raw, maxErrorBody)}
	}

	var out struct {
		ID    string            `json:"id"`
		Name  string            `json:"name"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	result := &Result{Status: res.StatusCode}
	if err := json.Unmarshal(raw, &out); err == nil {
		result.ID = out.ID
		result.Name = out.Name
		result.Nodes = len(out.Nodes)
	}
	return result, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return strings.ToValidUTF8(string(b), "�")
}
