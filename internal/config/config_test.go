package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_DRIVER", "CHAT_REPLY_DELAY", "CHAT_TOKEN_INTERVAL", "Model", "ARK_MODEL", "ARK_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.Path != "data" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	timing := cfg.Chat.Timing()
	if timing.ReplyDelay != 1500*time.Millisecond || timing.TokenInterval != 60*time.Millisecond {
		t.Fatalf("unexpected timing %+v", timing)
	}
	if cfg.AI.Enabled() {
		t.Fatal("AI must be disabled without credentials")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9090")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CHAT_REPLY_DELAY", "250")
	t.Setenv("CHAT_TOKEN_INTERVAL", "5ms")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("Model", "doubao-pro")
	t.Setenv("ARK_TEMPERATURE", "0.3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "redis" || cfg.Storage.Redis.DB != 3 {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Chat.ReplyDelay != 250*time.Millisecond || cfg.Chat.TokenInterval != 5*time.Millisecond {
		t.Fatalf("unexpected chat config %+v", cfg.Chat)
	}
	if !cfg.AI.Enabled() || cfg.AI.Model != "doubao-pro" {
		t.Fatalf("expected AI enabled with model, got %+v", cfg.AI)
	}
	if cfg.AI.Temperature == nil || *cfg.AI.Temperature != 0.3 {
		t.Fatalf("unexpected temperature %v", cfg.AI.Temperature)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":             "80 80",
		"CHAT_SCAN_DELAY":  "soon",
		"ARK_MAX_TOKENS":   "many",
		"CHAT_IMAGE_DELAY": "-5",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
