package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/config"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

// FileMakerClient talks to the FileMaker Data API: create a session, create
// records in bulk under the configured layout, close a session by token.
type FileMakerClient struct {
	baseURL  string
	database string
	layout   string
	user     string
	password string
	client   *http.Client
}

func NewFileMakerClient(cfg config.FileMakerConfig) *FileMakerClient {
	return &FileMakerClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		database: cfg.Database,
		layout:   cfg.Layout,
		user:     cfg.User,
		password: cfg.Password,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateRecordsResult is the parsed outcome of a batch create call.
type CreateRecordsResult struct {
	// Created is the number of record acknowledgments in the response.
	Created int
	// Raw is the full FileMaker response body, for diagnostics.
	Raw map[string]interface{}
}

// CreateSession opens a Data API session with Basic credentials and returns
// the session token.
func (c *FileMakerClient) CreateSession(ctx context.Context) (string, error) {
	if c.baseURL == "" || c.database == "" || c.user == "" || c.password == "" {
		return "", fmt.Errorf("missing FileMaker environment credentials")
	}

	endpoint := fmt.Sprintf("%s/fmi/data/vLatest/databases/%s/sessions", c.baseURL, url.PathEscape(c.database))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader("{}"))
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.user + ":" + c.password))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("FileMaker unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to create FileMaker session: status=%d body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Response struct {
			Token string `json:"token"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse FileMaker session response: %w", err)
	}
	if parsed.Response.Token == "" {
		return "", fmt.Errorf("no token in FileMaker session response")
	}

	return parsed.Response.Token, nil
}

// CreateRecords posts all records in one batch call under the configured
// layout. The wire contract is always {"records":[{"fieldData":{...}}]}.
func (c *FileMakerClient) CreateRecords(ctx context.Context, token string, records []models.TargetRecord) (*CreateRecordsResult, error) {
	type fieldData struct {
		FieldData models.TargetRecord `json:"fieldData"`
	}
	payload := struct {
		Records []fieldData `json:"records"`
	}{Records: make([]fieldData, len(records))}
	for i, r := range records {
		payload.Records[i] = fieldData{FieldData: r}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}

	endpoint := fmt.Sprintf("%s/fmi/data/vLatest/databases/%s/layouts/%s/records",
		c.baseURL, url.PathEscape(c.database), url.PathEscape(c.layout))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create records request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("FileMaker unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("FileMaker rejected batch create: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse FileMaker response: %w", err)
	}

	return &CreateRecordsResult{
		Created: countAcks(raw),
		Raw:     raw,
	}, nil
}

// CloseSession deletes the Data API session. Best-effort at the call sites;
// the error is returned so callers can log it.
func (c *FileMakerClient) CloseSession(ctx context.Context, token string) error {
	endpoint := fmt.Sprintf("%s/fmi/data/vLatest/databases/%s/sessions/%s",
		c.baseURL, url.PathEscape(c.database), url.PathEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create session delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to close FileMaker session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to close FileMaker session: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// countAcks counts the per-record acknowledgments in a batch create
// response. FileMaker may silently reject individual records; the ack count
// is what we report as created.
func countAcks(raw map[string]interface{}) int {
	response, ok := raw["response"].(map[string]interface{})
	if !ok {
		return 0
	}
	records, ok := response["records"].([]interface{})
	if !ok {
		return 0
	}
	return len(records)
}
