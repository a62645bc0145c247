package n8n_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	"github.com/provadapt/provadapt-backend/internal/logger"
	"github.com/provadapt/provadapt-backend/internal/types"
)

func newClient(t *testing.T, analyzeURL, generateURL string) n8n.Client {
	t.Helper()
	t.Setenv("N8N_ANALYZE_WEBHOOK_URL", analyzeURL)
	t.Setenv("N8N_GENERATE_WEBHOOK_URL", generateURL)
	t.Setenv("APP_TO_N8N_SECRET", "app-secret")
	t.Setenv("APP_BASE_URL", "https://app.example/")

	log, err := logger.New("test")
	require.NoError(t, err)
	client, err := n8n.NewClient(log)
	require.NoError(t, err)
	return client
}

func TestTriggerAnalyzeSendsSecretAndEvent(t *testing.T) {
	var gotSecret string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-APP-SECRET")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(n8n.AckResponse{Accepted: true, ExamID: "ex-1", RunID: "run-42"})
	}))
	defer srv.Close()

	client := newClient(t, srv.URL, srv.URL)
	ack, err := client.TriggerAnalyze(t.Context(), n8n.AnalyzePayload{
		ExamID:             "ex-1",
		User:               n8n.UserRef{ID: "u-1", Email: "ana@escola.example"},
		SelectedConditions: []types.Condition{types.ConditionTEA},
	})
	require.NoError(t, err)

	assert.Equal(t, "app-secret", gotSecret)
	assert.Equal(t, "analyze_exam", gotBody["event"])
	callback := gotBody["callback"].(map[string]any)
	assert.Equal(t, "https://app.example/api/n8n/callback", callback["url"])
	assert.Equal(t, n8n.CallbackSecretHeader, callback["secret_header_name"])
	assert.True(t, ack.Accepted)
	assert.Equal(t, "run-42", ack.RunID)
}

func TestTriggerGenerateNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newClient(t, srv.URL, srv.URL)
	_, err := client.TriggerGenerate(t.Context(), n8n.GeneratePayload{ExamID: "ex-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewClientRequiresConfig(t *testing.T) {
	t.Setenv("N8N_ANALYZE_WEBHOOK_URL", "")
	t.Setenv("N8N_GENERATE_WEBHOOK_URL", "")
	t.Setenv("APP_TO_N8N_SECRET", "")
	t.Setenv("APP_BASE_URL", "")

	log, err := logger.New("test")
	require.NoError(t, err)
	_, err = n8n.NewClient(log)
	require.Error(t, err)
}
