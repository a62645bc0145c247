package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/provadapt/provadapt-backend/internal/logger"
)

// Client dispatches jobs to the n8n workflow engine. Dispatch is fire-and-ack:
// the engine does its work asynchronously and reports back via the callback
// endpoint named in each payload.
type Client interface {
	TriggerAnalyze(ctx context.Context, payload AnalyzePayload) (AckResponse, error)
	TriggerGenerate(ctx context.Context, payload GeneratePayload) (AckResponse, error)
	CallbackRef() CallbackRef
}

type client struct {
	log         *logger.Logger
	analyzeURL  string
	generateURL string
	appSecret   string
	callbackURL string
	httpClient  *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	analyzeURL := strings.TrimSpace(os.Getenv("N8N_ANALYZE_WEBHOOK_URL"))
	if analyzeURL == "" {
		return nil, fmt.Errorf("missing N8N_ANALYZE_WEBHOOK_URL")
	}
	generateURL := strings.TrimSpace(os.Getenv("N8N_GENERATE_WEBHOOK_URL"))
	if generateURL == "" {
		return nil, fmt.Errorf("missing N8N_GENERATE_WEBHOOK_URL")
	}
	appSecret := strings.TrimSpace(os.Getenv("APP_TO_N8N_SECRET"))
	if appSecret == "" {
		return nil, fmt.Errorf("missing APP_TO_N8N_SECRET")
	}
	appBaseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("APP_BASE_URL")), "/")
	if appBaseURL == "" {
		return nil, fmt.Errorf("missing APP_BASE_URL")
	}

	return &client{
		log:         log.With("client", "N8nClient"),
		analyzeURL:  analyzeURL,
		generateURL: generateURL,
		appSecret:   appSecret,
		callbackURL: appBaseURL + "/api/n8n/callback",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *client) CallbackRef() CallbackRef {
	return CallbackRef{
		URL:              c.callbackURL,
		SecretHeaderName: CallbackSecretHeader,
	}
}

func (c *client) TriggerAnalyze(ctx context.Context, payload AnalyzePayload) (AckResponse, error) {
	payload.Event = EventAnalyze
	payload.Callback = c.CallbackRef()
	return c.post(ctx, c.analyzeURL, payload)
}

func (c *client) TriggerGenerate(ctx context.Context, payload GeneratePayload) (AckResponse, error) {
	payload.Event = EventGenerate
	payload.Callback = c.CallbackRef()
	return c.post(ctx, c.generateURL, payload)
}

func (c *client) post(ctx context.Context, url string, payload any) (AckResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return AckResponse{}, fmt.Errorf("marshal n8n payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return AckResponse{}, fmt.Errorf("build n8n request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(appSecretHeader, c.appSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AckResponse{}, fmt.Errorf("n8n dispatch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return AckResponse{}, fmt.Errorf("n8n dispatch failed: status %d: %s", resp.StatusCode, string(raw))
	}

	var ack AckResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return AckResponse{}, fmt.Errorf("decode n8n ack: %w", err)
	}
	return ack, nil
}
