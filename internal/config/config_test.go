package config

import (
	"testing"
	"time"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PLAYLIST_URLS", "https://example.com/live.m3u")
	t.Setenv("DOUYIN_EPISODE_ID", "7584406015685301302")
	t.Setenv("DOUYIN_ROOM_ID", "7584078467029846836")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_KeyPolicyValidation(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("MATCH_KEY_POLICY", "md5-full")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid MATCH_KEY_POLICY")
	}
}

func TestLoad_KeyPolicyDefaultsToDigest(t *testing.T) {
	setMinimalEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.KeyPolicy != KeyPolicyDigest {
		t.Fatalf("unexpected KeyPolicy: %q", cfg.KeyPolicy)
	}
}

func TestLoad_PlaylistRequiresURLsWhenEnabled(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("PLAYLIST_URLS", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PLAYLIST_ENABLED=true without PLAYLIST_URLS")
	}
}

func TestLoad_PlaylistDisabledAllowsNoURLs(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("PLAYLIST_ENABLED", "false")
	t.Setenv("PLAYLIST_URLS", "")
	if _, err := Load(); err != nil {
		t.Fatalf("load config: %v", err)
	}
}

func TestLoad_DouyinRequiresRoomIDWhenEnabled(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("DOUYIN_ROOM_ID", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DOUYIN_ENABLED=true without DOUYIN_ROOM_ID")
	}
}

func TestLoad_DouyinDisabledAllowsNoSeeds(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("DOUYIN_ENABLED", "false")
	t.Setenv("DOUYIN_EPISODE_ID", "")
	t.Setenv("DOUYIN_ROOM_ID", "")
	if _, err := Load(); err != nil {
		t.Fatalf("load config: %v", err)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerWhenEnabled(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_UpstreamTuning(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("MIGU_TIMEOUT", "7s")
	t.Setenv("MIGU_MAX_RETRIES", "4")
	t.Setenv("MIGU_NODE_WORKERS", "3")
	t.Setenv("PLAYLIST_URLS", "https://a.example/a.m3u, https://b.example/b.m3u")
	t.Setenv("DOUYIN_MAX_PAGES", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MiguTimeout != 7*time.Second {
		t.Fatalf("unexpected MiguTimeout: %s", cfg.MiguTimeout)
	}
	if cfg.MiguMaxRetries != 4 {
		t.Fatalf("unexpected MiguMaxRetries: %d", cfg.MiguMaxRetries)
	}
	if cfg.MiguNodeWorkers != 3 {
		t.Fatalf("unexpected MiguNodeWorkers: %d", cfg.MiguNodeWorkers)
	}
	if len(cfg.PlaylistURLs) != 2 || cfg.PlaylistURLs[1] != "https://b.example/b.m3u" {
		t.Fatalf("unexpected PlaylistURLs: %v", cfg.PlaylistURLs)
	}
	if cfg.DouyinMaxPages != 6 {
		t.Fatalf("unexpected DouyinMaxPages: %d", cfg.DouyinMaxPages)
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}
