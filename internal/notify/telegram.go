package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobalert/internal/logging"
)

type TelegramConfig struct {
	Token   string
	ChatID  int64
	Timeout time.Duration
	// Delay is the minimum spacing between two messages.
	Delay       time.Duration
	APIEndpoint string
	NoPreview   bool
}

type Telegram struct {
	bot       *tgbotapi.BotAPI
	chatID    int64
	delay     time.Duration
	noPreview bool
	log       *logging.Logger

	mu   sync.Mutex
	last time.Time
}

// NewTelegram validates the token with a getMe call.
func NewTelegram(cfg TelegramConfig, log *logging.Logger) (*Telegram, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("telegram: missing bot token")
	}
	if cfg.ChatID == 0 {
		return nil, fmt.Errorf("telegram: missing chat id")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if log == nil {
		log = logging.NewNop()
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, cfg.APIEndpoint, &http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	return &Telegram{
		bot:       bot,
		chatID:    cfg.ChatID,
		delay:     cfg.Delay,
		noPreview: cfg.NoPreview,
		log:       log,
	}, nil
}

func (t *Telegram) BotName() string { return t.bot.Self.UserName }

func (t *Telegram) Send(ctx context.Context, text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.wait(ctx); err != nil {
		t.log.Warn("telegram send skipped", "err", err)
		return false
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = t.noPreview

	_, err := t.bot.Send(msg)
	t.last = time.Now()
	if err != nil {
		t.log.Warn("telegram send failed", "err", err)
		return false
	}
	return true
}

func (t *Telegram) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.delay <= 0 || t.last.IsZero() {
		return nil
	}
	d := time.Until(t.last.Add(t.delay))
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
