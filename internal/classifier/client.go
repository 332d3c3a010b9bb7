// Package classifier talks to the external sentiment service. The
// service is a black box: given free text it returns a binary label.
// Training and hosting it are out of scope here.
package classifier

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/emreb/cinematch/internal/config"
)

const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
)

// Commentary is the canned one-liner shown next to a movie's sentiment.
func Commentary(label string) string {
	if label == LabelPositive {
		return "Audiences seem to love this one, a safe pick for movie night."
	}
	return "A divisive one, expect strong opinions after the credits roll."
}

// Client calls the sentiment service over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a client from config. The timeout bounds the whole
// request; classification is on the request path for uncached movies.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Classifier.URL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Sentiment string `json:"sentiment"`
}

// Analyze classifies the text and returns LabelPositive or LabelNegative.
// Anything the service reports that is not the positive label is treated
// as negative, keeping the contract binary even if the service grows
// extra labels.
func (c *Client) Analyze(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to encode classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode classifier response: %w", err)
	}

	if out.Sentiment == LabelPositive {
		return LabelPositive, nil
	}
	return LabelNegative, nil
}
