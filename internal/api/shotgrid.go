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
	"sync"
	"time"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/config"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

// ShotGridClient queries the ShotGrid REST API with script credentials.
// The access token is cached in memory and refreshed shortly before expiry.
type ShotGridClient struct {
	baseURL    string
	scriptName string
	scriptKey  string
	client     *http.Client

	mu    sync.Mutex
	token *models.AccessToken
}

func NewShotGridClient(cfg config.ShotGridConfig) *ShotGridClient {
	return &ShotGridClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		scriptName: cfg.ScriptName,
		scriptKey:  cfg.ScriptKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type searchRequest struct {
	Filters [][]interface{} `json:"filters"`
	Fields  []string        `json:"fields"`
}

type searchResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// Find returns the entities of entityType whose id is in ids, carrying the
// requested fields. Reference-typed fields come back hydrated with their
// id/name/code sub-fields.
func (c *ShotGridClient) Find(ctx context.Context, entityType string, ids []int, fields []string) ([]models.SourceEntity, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	idList := make([]interface{}, len(ids))
	for i, id := range ids {
		idList[i] = id
	}

	body, err := json.Marshal(searchRequest{
		Filters: [][]interface{}{{"id", "in", idList}},
		Fields:  fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	resp, err := c.doSearch(ctx, entityType, token, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Handle 401 - re-authenticate and retry once
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		token, err = c.authenticate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to re-authenticate after 401: %w", err)
		}
		resp, err = c.doSearch(ctx, entityType, token, body)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ShotGrid query rejected: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ShotGrid response: %w", err)
	}

	entities := make([]models.SourceEntity, 0, len(parsed.Data))
	for _, row := range parsed.Data {
		entity := models.SourceEntity{Fields: make(map[string]interface{}, len(row))}
		for k, v := range row {
			if k == "id" {
				if f, ok := v.(float64); ok {
					entity.ID = int(f)
				}
				continue
			}
			entity.Fields[k] = v
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

func (c *ShotGridClient) doSearch(ctx context.Context, entityType, accessToken string, body []byte) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/api/v1/entity/%s/_search", c.baseURL, url.PathEscape(entityType))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ShotGrid unreachable: %w", err)
	}
	return resp, nil
}

func (c *ShotGridClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.token
	c.mu.Unlock()

	if cached != nil && !cached.ShouldRefresh() {
		return cached.Token, nil
	}
	return c.authenticate(ctx)
}

func (c *ShotGridClient) authenticate(ctx context.Context) (string, error) {
	if c.baseURL == "" || c.scriptName == "" || c.scriptKey == "" {
		return "", fmt.Errorf("missing ShotGrid environment credentials")
	}

	formData := url.Values{}
	formData.Set("grant_type", "client_credentials")
	formData.Set("client_id", c.scriptName)
	formData.Set("client_secret", c.scriptKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/access_token", strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ShotGrid auth failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ShotGrid auth failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse ShotGrid auth response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("no access token in ShotGrid auth response")
	}

	token := &models.AccessToken{
		Token:     tokenResp.AccessToken,
		TokenType: tokenResp.TokenType,
		ExpiresAt: time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	return token.Token, nil
}
