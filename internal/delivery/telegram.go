package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/internal/digest"
	"github.com/marketbrief/marketbrief/internal/model"
)

// Section headers keyed by digest section name.
var sectionHeaders = map[string]string{
	"macro":       "📊 宏观数据",
	"pre-open":    "🌅 盘前财报",
	"post-close":  "🌙 盘后财报",
	"unscheduled": "📌 其他财报",
}

// Telegram delivers digests through the Telegram Bot API. The tenant's
// DeliveryTarget is the chat id.
type Telegram struct {
	apiURL     string
	botToken   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTelegram creates a Telegram deliverer.
func NewTelegram(apiURL, botToken string, timeout time.Duration, logger *slog.Logger) *Telegram {
	if logger == nil {
		logger = slog.Default()
	}
	return &Telegram{
		apiURL:     apiURL,
		botToken:   botToken,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Deliver implements Deliverer. One message per digest; an empty digest is
// reported as "no events" rather than suppressed, so recipients can tell a
// quiet day from a missed one.
func (t *Telegram) Deliver(ctx context.Context, tenant model.Tenant, d model.Digest) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    tenant.DeliveryTarget,
		Text:      FormatMessage(d),
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message to tenant %s: %w", tenant.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram rejected message for tenant %s: status %d: %s", tenant.ID, resp.StatusCode, body)
	}

	t.logger.Debug("digest delivered", "tenant", tenant.ID)
	return nil
}

// FormatMessage renders a digest into one Telegram Markdown message.
func FormatMessage(d model.Digest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *%s*\n", d.Day.Format("2006-01-02"))

	if d.Empty() {
		sb.WriteString("\n今日无重要事件")
		return sb.String()
	}

	for _, section := range d.Sections {
		if len(section.Lines) == 0 && section.Omitted == 0 {
			continue
		}
		header, ok := sectionHeaders[section.Name]
		if !ok {
			header = section.Name
		}
		fmt.Fprintf(&sb, "\n%s\n%s\n", header, digest.RenderSection(section))
	}

	return strings.TrimRight(sb.String(), "\n")
}
