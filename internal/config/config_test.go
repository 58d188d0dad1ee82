package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDerivesAndDefaults(t *testing.T) {
	t.Setenv("CHAT_API_URL", "http://chat.example.com/")
	t.Setenv("CHAT_ACCESS_TOKEN", "tok")
	t.Setenv("METRICS_ADDR", ":9109")
	t.Setenv("CHAT_MEDIA_URL", "")
	t.Setenv("CHAT_WS_URL", "")
	t.Setenv("CHAT_TYPING_DECAY", "")
	t.Setenv("AMQP_EXCHANGE", "")

	cfg := Load()
	assert.Equal(t, "http://chat.example.com", cfg.APIBaseURL)
	assert.Equal(t, "ws://chat.example.com", cfg.WSBaseURL)
	assert.Equal(t, "http://chat.example.com/media", cfg.MediaBaseURL)
	assert.Equal(t, "tok", cfg.AccessToken)
	assert.Equal(t, 1500*time.Millisecond, cfg.TypingDecay)
	assert.Equal(t, ":9109", cfg.MetricsAddr)
	assert.Equal(t, "client_telemetry", cfg.AMQPExchange)
}
