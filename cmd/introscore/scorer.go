package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/spboyer/introscore/internal/cache"
	"github.com/spboyer/introscore/internal/graders"
	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/projectconfig"
	"github.com/spboyer/introscore/internal/rubric"
	"github.com/spboyer/introscore/internal/semantic"
	"github.com/spboyer/introscore/internal/sentiment"
)

// describedEmbedder is implemented by the concrete embedders and lets the
// batch setup record what was used.
type describedEmbedder interface {
	semantic.Embedder
	Name() string
	Model() string
}

// scorerSetup is everything a command needs to score transcripts.
type scorerSetup struct {
	scorer *rubric.Scorer
	setup  models.OutcomeSetup
}

// loadProjectConfig loads .introscore.yaml from the working directory upward.
func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	return projectconfig.Load(wd)
}

// buildScorer wires both capabilities from cfg and assembles the rubric.
// Capabilities are built once and shared by every scoring pass.
func buildScorer(cfg *projectconfig.ProjectConfig) (*scorerSetup, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	params, err := rubricParams(cfg.Rubric)
	if err != nil {
		return nil, err
	}

	caps := graders.Capabilities{
		Threshold: cfg.Embeddings.Threshold,
		Analyzer:  analyzer,
	}
	setup := models.OutcomeSetup{
		EmbeddingProvider: projectconfig.ProviderNone,
		SentimentProvider: cfg.Sentiment.Provider,
		SemanticThreshold: cfg.Embeddings.Threshold,
		Workers:           cfg.Batch.Workers,
	}

	if embedder != nil {
		var store semantic.VectorStore
		if cfg.Cache.Enabled != nil && *cfg.Cache.Enabled {
			c, err := cache.New(cfg.Cache.Dir)
			if err != nil {
				return nil, fmt.Errorf("opening embedding cache: %w", err)
			}
			store = c
		}
		caps.Embedder = semantic.NewCachingEmbedder(embedder, embedder.Model(), store)
		setup.EmbeddingProvider = embedder.Name()
		setup.EmbeddingModel = embedder.Model()
	}

	gs, err := graders.DefaultRubric(caps, params)
	if err != nil {
		return nil, fmt.Errorf("building rubric: %w", err)
	}

	parallel := cfg.Scoring.Parallel != nil && *cfg.Scoring.Parallel
	scorer, err := rubric.New(gs, rubric.WithParallel(parallel), rubric.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}

	slog.Debug("Scorer ready",
		"embedding_provider", setup.EmbeddingProvider,
		"embedding_model", setup.EmbeddingModel,
		"sentiment_provider", setup.SentimentProvider,
		"parallel", parallel)
	return &scorerSetup{scorer: scorer, setup: setup}, nil
}

func newEmbedder(cfg *projectconfig.ProjectConfig) (describedEmbedder, error) {
	e := cfg.Embeddings
	switch e.Provider {
	case projectconfig.ProviderNone:
		return nil, nil
	case projectconfig.ProviderHashing:
		return semantic.NewHashingEmbedder(e.Dims), nil
	case projectconfig.ProviderHTTP:
		apiKey := ""
		if e.APIKeyEnv != "" {
			apiKey = os.Getenv(e.APIKeyEnv)
		}
		embedder, err := semantic.NewHTTPEmbedder(semantic.HTTPEmbedderArgs{
			Endpoint: e.Endpoint,
			APIKey:   apiKey,
			Model:    e.Model,
			Timeout:  time.Duration(e.Timeout) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
		return embedder, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", e.Provider)
	}
}

func newAnalyzer(cfg *projectconfig.ProjectConfig) (sentiment.Analyzer, error) {
	switch cfg.Sentiment.Provider {
	case projectconfig.SentimentLexicon, "":
	case projectconfig.SentimentVader:
		return sentiment.NewVaderAnalyzer(), nil
	default:
		return nil, fmt.Errorf("unknown sentiment provider %q", cfg.Sentiment.Provider)
	}

	if cfg.Sentiment.Lexicon == "" {
		return sentiment.NewLexiconAnalyzer()
	}
	analyzer, err := sentiment.LoadLexicon(cfg.Sentiment.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("loading sentiment lexicon: %w", err)
	}
	return analyzer, nil
}

// rubricParams keys the configured grader parameters by criterion kind.
func rubricParams(raw map[string]map[string]any) (map[models.CriterionKind]map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(map[models.CriterionKind]map[string]any, len(raw))
	for name, p := range raw {
		kind := models.CriterionKind(name)
		if !slices.Contains(graders.Order, kind) {
			return nil, fmt.Errorf("rubric: '%s' is not a valid criterion", name)
		}
		params[kind] = p
	}
	return params, nil
}
