package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/config"
	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

func fmConfig(url string) config.FileMakerConfig {
	return config.FileMakerConfig{
		BaseURL:  url,
		Database: "Plates",
		Layout:   "PlateEntry",
		User:     "sync",
		Password: "pw",
		Timeout:  5 * time.Second,
	}
}

func TestFileMakerCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fmi/data/vLatest/databases/Plates/sessions", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sync", user)
		assert.Equal(t, "pw", pass)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": map[string]interface{}{"token": "fm-session-abc"},
			"messages": []map[string]string{{"code": "0", "message": "OK"}},
		})
	}))
	defer server.Close()

	client := NewFileMakerClient(fmConfig(server.URL))
	token, err := client.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fm-session-abc", token)
}

func TestFileMakerCreateSessionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"messages":[{"code":"212","message":"Invalid account"}]}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewFileMakerClient(fmConfig(server.URL))
	_, err := client.CreateSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestFileMakerCreateSessionMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"response": map[string]interface{}{}})
	}))
	defer server.Close()

	client := NewFileMakerClient(fmConfig(server.URL))
	_, err := client.CreateSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token")
}

func TestFileMakerCreateRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fmi/data/vLatest/databases/Plates/layouts/PlateEntry/records", r.URL.Path)
		assert.Equal(t, "Bearer fm-session-abc", r.Header.Get("Authorization"))

		// The batch is always posted under the "records" key.
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		records, ok := payload["records"].([]interface{})
		require.True(t, ok, "payload must use the records key")
		require.Len(t, records, 2)

		first, ok := records[0].(map[string]interface{})
		require.True(t, ok)
		fieldData, ok := first["fieldData"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "PL_010", fieldData["Plate Name"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": map[string]interface{}{
				"records": []interface{}{
					map[string]interface{}{"recordId": "101", "modId": "0"},
					map[string]interface{}{"recordId": "102", "modId": "0"},
				},
			},
			"messages": []map[string]string{{"code": "0", "message": "OK"}},
		})
	}))
	defer server.Close()

	client := NewFileMakerClient(fmConfig(server.URL))
	result, err := client.CreateRecords(context.Background(), "fm-session-abc", []models.TargetRecord{
		{"Plate Name": "PL_010", "ForeignKey": 501},
		{"Plate Name": "PL_011"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.NotNil(t, result.Raw["response"])
}

func TestFileMakerCreateRecordsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"messages":[{"code":"102","message":"Field missing"}]}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewFileMakerClient(fmConfig(server.URL))
	_, err := client.CreateRecords(context.Background(), "tok", []models.TargetRecord{{"Slate": "A001"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestFileMakerCloseSession(t *testing.T) {
	var deleted string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deleted = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{"messages": []map[string]string{{"code": "0"}}})
	}))
	defer server.Close()

	client := NewFileMakerClient(fmConfig(server.URL))
	err := client.CloseSession(context.Background(), "fm-session-abc")
	require.NoError(t, err)
	assert.Equal(t, "/fmi/data/vLatest/databases/Plates/sessions/fm-session-abc", deleted)
}

func TestCountAcks(t *testing.T) {
	assert.Equal(t, 0, countAcks(map[string]interface{}{}))
	assert.Equal(t, 0, countAcks(map[string]interface{}{"response": map[string]interface{}{}}))
	assert.Equal(t, 3, countAcks(map[string]interface{}{
		"response": map[string]interface{}{
			"records": []interface{}{1, 2, 3},
		},
	}))
}
