package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Notification 封装一次评分结论的推送上下文。
type Notification struct {
	Account      string
	ScoredAt     time.Time
	Score        int
	Outcome      string
	Ceiling      decimal.Decimal
	RatePct      *decimal.Decimal
	Factors      []string
	Transactions int
	WindowFrom   time.Time
	WindowTo     time.Time
}

// Notifier 定义评分结论的输送接口。
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier 通过 Telegram Bot API 推送消息。
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier 构造 Telegram 通知器。
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "notify_telegram").Logger(),
	}
}

// Notify 调用 sendMessage API 推送文本。
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram 响应码异常: %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram 返回 ok=false")
		}
	}

	n.logger.Info().Str("account", note.Account).
		Int("score", note.Score).
		Str("outcome", note.Outcome).
		Msg("评分结论已推送 (Telegram)")
	return nil
}

func renderMessage(note Notification) string {
	builder := strings.Builder{}
	builder.WriteString("[FinScore Decision]\n")
	builder.WriteString(fmt.Sprintf("Account: %s\n", note.Account))
	builder.WriteString(fmt.Sprintf("Scored: %s UTC\n", note.ScoredAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("Score: %d/100\n", note.Score))
	builder.WriteString(fmt.Sprintf("Outcome: %s\n", note.Outcome))
	if note.RatePct != nil {
		builder.WriteString(fmt.Sprintf("Offer: KES %s at %s%%\n", note.Ceiling.StringFixed(0), note.RatePct.StringFixed(0)))
	} else {
		builder.WriteString("Offer: none\n")
	}
	builder.WriteString(fmt.Sprintf("Transactions: %d\n", note.Transactions))
	if !note.WindowFrom.IsZero() && !note.WindowTo.IsZero() {
		builder.WriteString(fmt.Sprintf("Window: %s .. %s\n",
			note.WindowFrom.UTC().Format("2006-01-02"),
			note.WindowTo.UTC().Format("2006-01-02")))
	}
	if len(note.Factors) > 0 {
		builder.WriteString(fmt.Sprintf("Risk factors: %s\n", strings.Join(note.Factors, "; ")))
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
