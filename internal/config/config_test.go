package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("Port = %q, want 8090", cfg.Port)
	}
	if cfg.Env != "local" {
		t.Errorf("Env = %q, want local", cfg.Env)
	}
	if cfg.Addr() != ":8090" {
		t.Errorf("Addr = %q, want :8090", cfg.Addr())
	}
	if cfg.WorkerBatchSize != 10 {
		t.Errorf("WorkerBatchSize = %d, want 10", cfg.WorkerBatchSize)
	}
	if cfg.ScoreRefreshInterval != 15*time.Minute {
		t.Errorf("ScoreRefreshInterval = %s", cfg.ScoreRefreshInterval)
	}
	if cfg.IngestMaxFileBytes != 50<<20 {
		t.Errorf("IngestMaxFileBytes = %d", cfg.IngestMaxFileBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_POLL_INTERVAL", "500ms")
	t.Setenv("INGEST_MAX_FILE_MB", "5")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.WorkerPollInterval != 500*time.Millisecond {
		t.Errorf("WorkerPollInterval = %s", cfg.WorkerPollInterval)
	}
	if cfg.IngestMaxFileBytes != 5<<20 {
		t.Errorf("IngestMaxFileBytes = %d", cfg.IngestMaxFileBytes)
	}
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("OPS_TOKEN_TTL", "soon")

	cfg := Load()

	if cfg.DBMaxConns != 25 {
		t.Errorf("DBMaxConns = %d, want fallback 25", cfg.DBMaxConns)
	}
	if cfg.OpsTokenTTL != 12*time.Hour {
		t.Errorf("OpsTokenTTL = %s, want fallback 12h", cfg.OpsTokenTTL)
	}
}
