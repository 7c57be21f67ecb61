package notify

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mariiahub/internal/domain"
)

var testLogger = zerolog.New(io.Discard)

type recordingNotifier struct {
	kinds    []domain.AlertKind
	messages []string
	data     []map[string]interface{}
}

func (r *recordingNotifier) Notify(kind domain.AlertKind, message string, data map[string]interface{}) {
	r.kinds = append(r.kinds, kind)
	r.messages = append(r.messages, message)
	r.data = append(r.data, data)
}

func TestAlertsConnectionLost(t *testing.T) {
	rec := &recordingNotifier{}
	a := NewAlerts(rec)

	a.ConnectionLost(3, 10*time.Minute)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, domain.AlertWarn, rec.kinds[0])
	assert.Contains(t, rec.messages[0], "offline")
	assert.Equal(t, 3, rec.data[0]["pending"])
	assert.Equal(t, 10, rec.data[0]["offline_minutes"])
}

func TestAlertsConnectionRestored(t *testing.T) {
	rec := &recordingNotifier{}
	a := NewAlerts(rec)

	a.ConnectionRestored(0)
	a.ConnectionRestored(2)

	require.Len(t, rec.messages, 2)
	assert.Equal(t, domain.AlertInfo, rec.kinds[0])
	assert.NotContains(t, rec.messages[0], "Syncing")
	assert.Contains(t, rec.messages[1], "Syncing 2")
}

func TestAlertsSyncCompleted(t *testing.T) {
	rec := &recordingNotifier{}
	a := NewAlerts(rec)

	a.SyncCompleted(4, 0)
	a.SyncCompleted(1, 1)

	require.Len(t, rec.messages, 2)
	assert.Equal(t, domain.AlertInfo, rec.kinds[0])
	assert.Equal(t, domain.AlertWarn, rec.kinds[1])
	assert.Equal(t, 1, rec.data[1]["failed"])
	assert.Contains(t, rec.messages[1], "retried")
}

func TestMultiNotifierFansOut(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{}
	multi := NewMultiNotifier(a, b)

	multi.Notify(domain.AlertInfo, "hello", nil)

	assert.Len(t, a.messages, 1)
	assert.Len(t, b.messages, 1)
}

func TestLogNotifierDoesNotPanic(t *testing.T) {
	n := NewLogNotifier(&testLogger)
	n.Notify(domain.AlertInfo, "info", map[string]interface{}{"k": 1})
	n.Notify(domain.AlertWarn, "warn", nil)
	n.Notify(domain.AlertError, "error", nil)
}

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegramNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramNotifierWithSender(sender, 42, &testLogger)

	n.Notify(domain.AlertWarn, "kiosk offline", map[string]interface{}{"pending": 2})

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.True(t, strings.HasPrefix(msg.Text, "[WARN] kiosk offline"))
	assert.Contains(t, msg.Text, `"pending":2`)
}

func TestTelegramNotifierSendErrorIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("blocked")}
	n := NewTelegramNotifierWithSender(sender, 42, &testLogger)

	// Alerting is best effort; a dead channel must not break the engine.
	n.Notify(domain.AlertError, "sync failed", nil)
	assert.Len(t, sender.sent, 1)
}
