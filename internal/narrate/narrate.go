// Package narrate drafts per-pair compatibility prose with an LLM and
// writes it as a dataset override file.
package narrate

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/horoscope/internal/compat"
	"github.com/abhisek/horoscope/internal/llm"
	"github.com/abhisek/horoscope/internal/zodiac"
)

// Config controls a narration run.
type Config struct {
	// Concurrency bounds in-flight LLM calls.
	Concurrency int

	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{
		Concurrency: 4,
		MaxTokens:   600,
		Temperature: 0.8,
	}
}

// PairError is a pair the model could not narrate.
type PairError struct {
	Pair zodiac.Pair
	Err  error
}

func (e PairError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pair.Key(), e.Err)
}

func (e PairError) Unwrap() error { return e.Err }

// Result is the output of Run. File holds only the pairs that succeeded.
type Result struct {
	File   compat.File
	Failed []PairError
}

// Generator asks a provider for narratives, pair by pair.
type Generator struct {
	provider llm.Provider
	matcher  *compat.Matcher
	config   Config
	logger   *zap.Logger
}

// New creates a Generator that reads scores and current text from m.
func New(provider llm.Provider, m *compat.Matcher, cfg Config, logger *zap.Logger) *Generator {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{provider: provider, matcher: m, config: cfg, logger: logger}
}

// Pair drafts the narrative for one pair.
func (g *Generator) Pair(ctx context.Context, p zodiac.Pair) (compat.NarrativeText, error) {
	scores, err := g.matcher.ScoreFor(p.Low, p.High)
	if err != nil {
		return compat.NarrativeText{}, err
	}
	current, err := g.matcher.NarrativeFor(p.Low, p.High)
	if err != nil {
		return compat.NarrativeText{}, err
	}

	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(p, scores, current)}},
		Schema:      NarrativeSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, "narrative"), req)
	if err != nil {
		return compat.NarrativeText{}, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out narrativeOutput
	if err := llm.Decode(resp, &out); err != nil {
		return compat.NarrativeText{}, err
	}
	return compat.NarrativeText{Summary: out.Summary, Relationship: out.Relationship}, nil
}

// Run narrates every pair in pairs, at most Config.Concurrency at a time.
// A failed pair is reported in Result.Failed and does not stop the run;
// cancelling ctx does. progress, if non-nil, is called after each pair.
func (g *Generator) Run(ctx context.Context, pairs []zodiac.Pair, progress func(done, total int)) (*Result, error) {
	res := &Result{File: compat.File{
		Version:    g.matcher.Dataset().Version(),
		Narratives: make(map[string]compat.NarrativeText, len(pairs)),
	}}

	var (
		mu   sync.Mutex
		done int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.config.Concurrency)

	for _, p := range pairs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			text, err := g.Pair(egCtx, p)
			if ctxErr := egCtx.Err(); ctxErr != nil {
				return ctxErr
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				g.logger.Warn("narrative failed", zap.String("pair", p.Key()), zap.Error(err))
				res.Failed = append(res.Failed, PairError{Pair: p, Err: err})
			} else {
				res.File.Narratives[p.Key()] = text
			}
			if progress != nil {
				progress(done, len(pairs))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(res.Failed, func(i, j int) bool {
		return res.Failed[i].Pair.Key() < res.Failed[j].Pair.Key()
	})
	g.logger.Info("narration finished",
		zap.Int("pairs", len(pairs)),
		zap.Int("written", len(res.File.Narratives)),
		zap.Int("failed", len(res.Failed)))
	return res, nil
}

// WriteOverride encodes f as dataset override YAML.
func WriteOverride(w io.Writer, f compat.File) error {
	if _, err := io.WriteString(w, "# Generated by `horoscope dataset narrate`.\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode override: %w", err)
	}
	return enc.Close()
}

// WriteOverrideFile writes f to path, replacing any existing file.
func WriteOverrideFile(path string, f compat.File) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOverride(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
