package mint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"agorachain/native/social"
)

// Config defines the HTTP client settings for the external NFT mint backend.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client hands chest mint requests over to the NFT backend. It satisfies
// social.MintService; the backend answers asynchronously and the node settles
// the result through ConfirmMint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("mint: base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type mintPayload struct {
	RequestID string `json:"requestId"`
	ChestID   string `json:"chestId"`
	TokenID   string `json:"tokenId"`
	Receiver  string `json:"receiver"`
}

// RequestMint submits a pending mint to the backend. Any transport or status
// failure surfaces as social.ErrExternalCallFailed so the caller can settle
// the request as failed.
func (c *Client) RequestMint(ctx context.Context, req social.MintRequest) error {
	if c == nil {
		return fmt.Errorf("mint: client not configured")
	}
	body, err := json.Marshal(mintPayload{
		RequestID: req.ID,
		ChestID:   req.ChestID,
		TokenID:   req.TokenID,
		Receiver:  req.Receiver,
	})
	if err != nil {
		return fmt.Errorf("mint: encode: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mints", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mint: request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", social.ErrExternalCallFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: unexpected status %d", social.ErrExternalCallFailed, resp.StatusCode)
	}
	return nil
}
