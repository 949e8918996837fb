package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TokenService mints ephemeral client credentials for the realtime voice
// API. The long-lived API key stays server-side; the browser only ever sees
// the short-lived client secret the upstream hands back.
type TokenService struct {
	baseURL string
	apiKey  string
	model   string
	voice   string
	client  *http.Client
}

func NewTokenService(baseURL, apiKey, model, voice string) *TokenService {
	return &TokenService{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		voice:   voice,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TokenService) Model() string {
	return s.model
}

type upstreamSessionRequest struct {
	Model        string `json:"model"`
	Voice        string `json:"voice,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type upstreamSessionResponse struct {
	ClientSecret struct {
		Value     string `json:"value"`
		ExpiresAt int64  `json:"expires_at"`
	} `json:"client_secret"`
}

// MintClientSecret asks the upstream realtime API for an ephemeral session
// credential carrying the rendered agent instructions.
func (s *TokenService) MintClientSecret(ctx context.Context, instructions string) (secret string, expiresAt int64, err error) {
	body, err := json.Marshal(upstreamSessionRequest{
		Model:        s.model,
		Voice:        s.voice,
		Instructions: instructions,
	})
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/realtime/sessions", bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("realtime session request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", 0, fmt.Errorf("realtime session request: upstream status %d", resp.StatusCode)
	}

	var out upstreamSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("realtime session response: %w", err)
	}
	if out.ClientSecret.Value == "" {
		return "", 0, fmt.Errorf("realtime session response: empty client secret")
	}

	return out.ClientSecret.Value, out.ClientSecret.ExpiresAt, nil
}
