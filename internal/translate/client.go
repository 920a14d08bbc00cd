package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client calls an external translation service. On any failure it returns
// the original text.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an external translation client.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

type translateResponse struct {
	Text string `json:"text"`
}

// Localize implements Localizer.
func (c *Client) Localize(ctx context.Context, text string) string {
	payload, err := json.Marshal(translateRequest{Text: text, Target: "zh"})
	if err != nil {
		return text
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return text
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("translation request failed, keeping original", "err", err)
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("translation rejected, keeping original", "status", resp.StatusCode)
		return text
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return text
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Text == "" {
		return text
	}

	return out.Text
}
