// Package projectconfig provides the ProjectConfig struct and loader for
// .introscore.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spboyer/introscore/internal/validation"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = ".introscore.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultEmbeddingProvider  = ProviderHashing
	DefaultEmbeddingAPIKeyEnv = "OPENAI_API_KEY"
	DefaultEmbeddingTimeout   = 30
	DefaultSemanticThreshold  = 0.35

	DefaultCacheDir = ".introscore-cache"

	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 8080

	DefaultWorkers = 4

	DefaultSentimentProvider = SentimentLexicon
)

// Embedding providers.
const (
	ProviderHashing = "hashing"
	ProviderHTTP    = "http"
	ProviderNone    = "none"
)

var providers = []string{ProviderHashing, ProviderHTTP, ProviderNone}

// Sentiment providers.
const (
	SentimentLexicon = "lexicon"
	SentimentVader   = "vader"
)

var sentimentProviders = []string{SentimentLexicon, SentimentVader}

// EmbeddingsConfig selects and configures the semantic fallback's embedder.
type EmbeddingsConfig struct {
	Provider  string  `yaml:"provider,omitempty"`
	Endpoint  string  `yaml:"endpoint,omitempty"`
	Model     string  `yaml:"model,omitempty"`
	APIKeyEnv string  `yaml:"api_key_env,omitempty"`
	Timeout   int     `yaml:"timeout,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Dims      int     `yaml:"dims,omitempty"`
}

// SentimentConfig selects the engagement analyzer. Lexicon replaces the
// built-in word list of the lexicon provider.
type SentimentConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Lexicon  string `yaml:"lexicon,omitempty"`
}

// ScoringConfig holds scoring pass settings.
type ScoringConfig struct {
	Parallel *bool `yaml:"parallel,omitempty"`
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// ServerConfig holds API server settings.
type ServerConfig struct {
	Host           string   `yaml:"host,omitempty"`
	Port           int      `yaml:"port,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// BatchConfig holds batch scoring settings.
type BatchConfig struct {
	Workers int `yaml:"workers,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .introscore.yaml.
type ProjectConfig struct {
	Embeddings EmbeddingsConfig `yaml:"embeddings,omitempty"`
	Sentiment  SentimentConfig  `yaml:"sentiment,omitempty"`
	Scoring    ScoringConfig    `yaml:"scoring,omitempty"`
	Cache      CacheConfig      `yaml:"cache,omitempty"`
	Server     ServerConfig     `yaml:"server,omitempty"`
	Batch      BatchConfig      `yaml:"batch,omitempty"`

	// Rubric holds per-criterion grader parameters keyed by criterion kind.
	Rubric map[string]map[string]any `yaml:"rubric,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Embeddings: EmbeddingsConfig{
			Provider:  DefaultEmbeddingProvider,
			APIKeyEnv: DefaultEmbeddingAPIKeyEnv,
			Timeout:   DefaultEmbeddingTimeout,
			Threshold: DefaultSemanticThreshold,
		},
		Sentiment: SentimentConfig{
			Provider: DefaultSentimentProvider,
		},
		Scoring: ScoringConfig{
			Parallel: boolPtr(false),
		},
		Cache: CacheConfig{
			Enabled: boolPtr(false),
			Dir:     DefaultCacheDir,
		},
		Server: ServerConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
		Batch: BatchConfig{
			Workers: DefaultWorkers,
		},
	}
}

// Load finds .introscore.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}
	if err := validation.Error(validation.ValidateConfigBytes(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *ProjectConfig) Validate() error {
	if !slices.Contains(providers, c.Embeddings.Provider) {
		return fmt.Errorf("embeddings.provider %q must be one of %v", c.Embeddings.Provider, providers)
	}
	if c.Embeddings.Provider == ProviderHTTP && c.Embeddings.Model == "" {
		return errors.New("embeddings.model is required for the http provider")
	}
	if !slices.Contains(sentimentProviders, c.Sentiment.Provider) {
		return fmt.Errorf("sentiment.provider %q must be one of %v", c.Sentiment.Provider, sentimentProviders)
	}
	if c.Sentiment.Provider == SentimentVader && c.Sentiment.Lexicon != "" {
		return errors.New("sentiment.lexicon only applies to the lexicon provider")
	}
	if c.Embeddings.Threshold < 0 || c.Embeddings.Threshold >= 1 {
		return fmt.Errorf("embeddings.threshold %v must be in [0, 1)", c.Embeddings.Threshold)
	}
	if c.Embeddings.Timeout < 0 {
		return errors.New("embeddings.timeout must not be negative")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers %d must be at least 1", c.Batch.Workers)
	}
	return nil
}

// findConfigFile walks up from dir looking for .introscore.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range 10 {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Embeddings
	if src.Embeddings.Provider != "" {
		dst.Embeddings.Provider = src.Embeddings.Provider
	}
	if src.Embeddings.Endpoint != "" {
		dst.Embeddings.Endpoint = src.Embeddings.Endpoint
	}
	if src.Embeddings.Model != "" {
		dst.Embeddings.Model = src.Embeddings.Model
	}
	if src.Embeddings.APIKeyEnv != "" {
		dst.Embeddings.APIKeyEnv = src.Embeddings.APIKeyEnv
	}
	if src.Embeddings.Timeout != 0 {
		dst.Embeddings.Timeout = src.Embeddings.Timeout
	}
	if src.Embeddings.Threshold != 0 {
		dst.Embeddings.Threshold = src.Embeddings.Threshold
	}
	if src.Embeddings.Dims != 0 {
		dst.Embeddings.Dims = src.Embeddings.Dims
	}

	if src.Sentiment.Provider != "" {
		dst.Sentiment.Provider = src.Sentiment.Provider
	}
	if src.Sentiment.Lexicon != "" {
		dst.Sentiment.Lexicon = src.Sentiment.Lexicon
	}

	if src.Scoring.Parallel != nil {
		dst.Scoring.Parallel = src.Scoring.Parallel
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}

	// Server
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.AllowedOrigins != nil {
		dst.Server.AllowedOrigins = src.Server.AllowedOrigins
	}

	if src.Batch.Workers != 0 {
		dst.Batch.Workers = src.Batch.Workers
	}

	if src.Rubric != nil {
		dst.Rubric = src.Rubric
	}
}

func boolPtr(b bool) *bool {
	return &b
}
