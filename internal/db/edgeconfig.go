package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const defaultVercelAPIURL = "https://api.vercel.com"

// EdgeConfigOptions describes a Vercel Edge Config store.
type EdgeConfigOptions struct {
	// ConnectionString is the EDGE_CONFIG value, e.g.
	// https://edge-config.vercel.com/ecfg_xxx?token=yyy
	ConnectionString string
	// APIToken authorizes writes through the Vercel REST API.
	APIToken string
	TeamID   string
	// APIURL overrides https://api.vercel.com.
	APIURL string
	Client *http.Client
}

// EdgeConfigBackend reads through the Edge Config endpoint and writes
// through the Vercel management API.
type EdgeConfigBackend struct {
	client    *http.Client
	readURL   string
	readToken string
	id        string
	apiURL    string
	apiToken  string
	teamID    string
}

func NewEdgeConfigBackend(opts EdgeConfigOptions) (*EdgeConfigBackend, error) {
	parsed, err := url.Parse(strings.TrimSpace(opts.ConnectionString))
	if err != nil {
		return nil, fmt.Errorf("parse edge config connection string: %w", err)
	}
	id := path.Base(parsed.Path)
	token := parsed.Query().Get("token")
	if parsed.Host == "" || id == "" || id == "/" || id == "." || token == "" {
		return nil, errors.New("edge config connection string must include host, id and token")
	}
	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultVercelAPIURL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &EdgeConfigBackend{
		client:    client,
		readURL:   parsed.Scheme + "://" + parsed.Host + "/" + id,
		readToken: token,
		id:        id,
		apiURL:    apiURL,
		apiToken:  opts.APIToken,
		teamID:    opts.TeamID,
	}, nil
}

func (e *EdgeConfigBackend) Get(ctx context.Context, key string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.readURL+"/item/"+url.PathEscape(key), nil)
	if err != nil {
		return "", fmt.Errorf("edge config: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.readToken)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("edge config: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("edge config: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var value *string
	if err := json.Unmarshal(body, &value); err != nil {
		return "", fmt.Errorf("edge config: decode item: %w", err)
	}
	if value == nil || *value == "" {
		return "", ErrNotFound
	}
	return *value, nil
}

type edgeConfigPatch struct {
	Items []edgeConfigItem `json:"items"`
}

type edgeConfigItem struct {
	Operation string `json:"operation"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

func (e *EdgeConfigBackend) Set(ctx context.Context, key, value string) error {
	if e.apiToken == "" {
		return errors.New("edge config: api token is required for writes")
	}
	payload, err := json.Marshal(edgeConfigPatch{
		Items: []edgeConfigItem{{Operation: "upsert", Key: key, Value: value}},
	})
	if err != nil {
		return fmt.Errorf("edge config: marshal patch: %w", err)
	}

	endpoint := e.apiURL + "/v1/edge-config/" + url.PathEscape(e.id) + "/items"
	if e.teamID != "" {
		endpoint += "?teamId=" + url.QueryEscape(e.teamID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("edge config: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("edge config: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("edge config: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

func (e *EdgeConfigBackend) Name() string { return "edgeconfig" }

func (e *EdgeConfigBackend) Close() error { return nil }
