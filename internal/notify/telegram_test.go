package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	mu       sync.Mutex
	texts    []string
	modes    []string
	failSend bool
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = r.ParseForm()

	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"alerts","username":"alerts_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		f.mu.Lock()
		f.texts = append(f.texts, r.FormValue("text"))
		f.modes = append(f.modes, r.FormValue("parse_mode"))
		fail := f.failSend
		f.mu.Unlock()
		if fail {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestTelegram(t *testing.T, fake *fakeTelegram, delay time.Duration) *Telegram {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	tg, err := NewTelegram(TelegramConfig{
		Token:       "123:abc",
		ChatID:      42,
		Timeout:     2 * time.Second,
		Delay:       delay,
		APIEndpoint: srv.URL + "/bot%s/%s",
	}, nil)
	require.NoError(t, err)
	return tg
}

func TestTelegram_Send(t *testing.T) {
	fake := &fakeTelegram{}
	tg := newTestTelegram(t, fake, 0)

	assert.Equal(t, "alerts_bot", tg.BotName())
	assert.True(t, tg.Send(context.Background(), "<b>hello</b>"))

	require.Len(t, fake.texts, 1)
	assert.Equal(t, "<b>hello</b>", fake.texts[0])
	assert.Equal(t, "HTML", fake.modes[0])
}

func TestTelegram_SendFailureIsFalse(t *testing.T) {
	fake := &fakeTelegram{failSend: true}
	tg := newTestTelegram(t, fake, 0)

	assert.False(t, tg.Send(context.Background(), "x"))
}

func TestTelegram_DelayHonorsContext(t *testing.T) {
	fake := &fakeTelegram{}
	tg := newTestTelegram(t, fake, time.Hour)

	require.True(t, tg.Send(context.Background(), "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.False(t, tg.Send(ctx, "second"))
	assert.Len(t, fake.texts, 1)
}

func TestNewTelegram_MissingCredentials(t *testing.T) {
	_, err := NewTelegram(TelegramConfig{ChatID: 1}, nil)
	assert.Error(t, err)

	_, err = NewTelegram(TelegramConfig{Token: "t"}, nil)
	assert.Error(t, err)
}
