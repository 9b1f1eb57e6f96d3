package projectconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	// Embeddings
	assertEqual(t, "Embeddings.Provider", "hashing", cfg.Embeddings.Provider)
	assertEqual(t, "Embeddings.Endpoint", "", cfg.Embeddings.Endpoint)
	assertEqual(t, "Embeddings.APIKeyEnv", "OPENAI_API_KEY", cfg.Embeddings.APIKeyEnv)
	assertEqualInt(t, "Embeddings.Timeout", 30, cfg.Embeddings.Timeout)
	if cfg.Embeddings.Threshold != 0.35 {
		t.Errorf("Embeddings.Threshold = %v, want 0.35", cfg.Embeddings.Threshold)
	}

	assertEqual(t, "Sentiment.Provider", "lexicon", cfg.Sentiment.Provider)
	assertEqual(t, "Sentiment.Lexicon", "", cfg.Sentiment.Lexicon)
	assertBoolPtr(t, "Scoring.Parallel", false, cfg.Scoring.Parallel)

	// Cache
	assertBoolPtr(t, "Cache.Enabled", false, cfg.Cache.Enabled)
	assertEqual(t, "Cache.Dir", ".introscore-cache", cfg.Cache.Dir)

	// Server
	assertEqual(t, "Server.Host", "127.0.0.1", cfg.Server.Host)
	assertEqualInt(t, "Server.Port", 8080, cfg.Server.Port)
	if cfg.Server.AllowedOrigins != nil {
		t.Error("Server.AllowedOrigins should be nil by default")
	}

	assertEqualInt(t, "Batch.Workers", 4, cfg.Batch.Workers)
	if cfg.Rubric != nil {
		t.Error("Rubric should be nil by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
embeddings:
  provider: http
  endpoint: http://localhost:11434/v1/embeddings
  model: nomic-embed-text
  api_key_env: EMBED_KEY
  timeout: 10
  threshold: 0.4
  dims: 512
sentiment:
  lexicon: ./lexicon.yaml
scoring:
  parallel: true
cache:
  enabled: true
  dir: ".my-cache"
server:
  host: 0.0.0.0
  port: 9000
  allowed_origins:
    - http://localhost:5173
batch:
  workers: 8
rubric:
  clarity:
    fillers: [um, uh]
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Embeddings.Provider", "http", cfg.Embeddings.Provider)
	assertEqual(t, "Embeddings.Endpoint", "http://localhost:11434/v1/embeddings", cfg.Embeddings.Endpoint)
	assertEqual(t, "Embeddings.Model", "nomic-embed-text", cfg.Embeddings.Model)
	assertEqual(t, "Embeddings.APIKeyEnv", "EMBED_KEY", cfg.Embeddings.APIKeyEnv)
	assertEqualInt(t, "Embeddings.Timeout", 10, cfg.Embeddings.Timeout)
	assertEqualInt(t, "Embeddings.Dims", 512, cfg.Embeddings.Dims)
	if cfg.Embeddings.Threshold != 0.4 {
		t.Errorf("Embeddings.Threshold = %v, want 0.4", cfg.Embeddings.Threshold)
	}
	assertEqual(t, "Sentiment.Provider", "lexicon", cfg.Sentiment.Provider)
	assertEqual(t, "Sentiment.Lexicon", "./lexicon.yaml", cfg.Sentiment.Lexicon)
	assertBoolPtr(t, "Scoring.Parallel", true, cfg.Scoring.Parallel)
	assertBoolPtr(t, "Cache.Enabled", true, cfg.Cache.Enabled)
	assertEqual(t, "Cache.Dir", ".my-cache", cfg.Cache.Dir)
	assertEqual(t, "Server.Host", "0.0.0.0", cfg.Server.Host)
	assertEqualInt(t, "Server.Port", 9000, cfg.Server.Port)
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	assertEqualInt(t, "Batch.Workers", 8, cfg.Batch.Workers)

	fillers, ok := cfg.Rubric["clarity"]["fillers"].([]any)
	if !ok || len(fillers) != 2 {
		t.Fatalf("Rubric[clarity][fillers] = %#v", cfg.Rubric["clarity"]["fillers"])
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
server:
  port: 9999
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Overridden
	assertEqualInt(t, "Server.Port", 9999, cfg.Server.Port)

	// Defaults preserved
	assertEqual(t, "Server.Host", "127.0.0.1", cfg.Server.Host)
	assertEqual(t, "Embeddings.Provider", "hashing", cfg.Embeddings.Provider)
	assertBoolPtr(t, "Scoring.Parallel", false, cfg.Scoring.Parallel)
	assertEqualInt(t, "Batch.Workers", 4, cfg.Batch.Workers)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defaults := New()
	assertEqual(t, "Embeddings.Provider", defaults.Embeddings.Provider, cfg.Embeddings.Provider)
	assertEqualInt(t, "Server.Port", defaults.Server.Port, cfg.Server.Port)
	assertEqualInt(t, "Batch.Workers", defaults.Batch.Workers, cfg.Batch.Workers)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
embeddings:
  provider: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for invalid YAML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown provider", content: "embeddings:\n  provider: magic\n", wantErr: "must be one of"},
		{name: "http without model", content: "embeddings:\n  provider: http\n", wantErr: "model is required"},
		{name: "threshold out of range", content: "embeddings:\n  threshold: 1.5\n", wantErr: "threshold"},
		{name: "negative timeout", content: "embeddings:\n  timeout: -1\n", wantErr: "timeout"},
		{name: "unknown sentiment provider", content: "sentiment:\n  provider: textblob\n", wantErr: "sentiment.provider"},
		{name: "lexicon with vader", content: "sentiment:\n  provider: vader\n  lexicon: words.yaml\n", wantErr: "only applies to the lexicon provider"},
		{name: "negative workers", content: "batch:\n  workers: -2\n", wantErr: "batch.workers"},
		{name: "unknown section", content: "dashboard:\n  port: 3000\n", wantErr: "schema validation failed"},
		{name: "misspelled key", content: "cache:\n  enabeld: true\n", wantErr: "enabeld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.content)

			_, err := Load(dir)
			if err == nil {
				t.Fatal("Load() should return an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, `
embeddings:
  provider: none
`)

	child := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Embeddings.Provider", "none", cfg.Embeddings.Provider)
	// Other defaults still populated
	assertEqual(t, "Cache.Dir", ".introscore-cache", cfg.Cache.Dir)
}

func TestBoolPointerFields(t *testing.T) {
	t.Run("defaults preserved when not set in YAML", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, `
batch:
  workers: 2
`)
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		assertBoolPtr(t, "Scoring.Parallel", false, cfg.Scoring.Parallel)
		assertBoolPtr(t, "Cache.Enabled", false, cfg.Cache.Enabled)
	})

	t.Run("explicitly true", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, `
scoring:
  parallel: true
cache:
  enabled: true
`)
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		assertBoolPtr(t, "Scoring.Parallel", true, cfg.Scoring.Parallel)
		assertBoolPtr(t, "Cache.Enabled", true, cfg.Cache.Enabled)
	})
}

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
