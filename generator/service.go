package generator

import (
	"context"
	"errors"
	"log"
	"time"
)

// Service orchestrates the three remote stages of a run: per-row relevance
// scoring, solution synthesis from the top-N abstracts, and product image
// generation from the narrative.
type Service struct {
	scorer TextModel
	synth  TextModel
	imager ImageModel
	logger *log.Logger

	// sleep is swappable for tests; it drives both retry backoff and the
	// post-call rate pacing.
	sleep func(time.Duration)
}

// NewService wires a service from explicit model clients. Tests hand in
// fakes here; production code usually goes through NewGeminiService.
func NewService(scorer, synth TextModel, imager ImageModel, logger *log.Logger) (*Service, error) {
	if scorer == nil || synth == nil {
		return nil, errors.New("text models are required")
	}
	return &Service{
		scorer: scorer,
		synth:  synth,
		imager: imager,
		logger: logger,
	}, nil
}

// NewGeminiService builds the three real Gemini clients for one run. The
// API key lives only inside the clients and is dropped with them.
func NewGeminiService(ctx context.Context, cfg Config, apiKey string, logger *log.Logger) (*Service, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.ApplyDefaults()
	scorer, err := NewGeminiText(ctx, apiKey, cfg.ScoringModel)
	if err != nil {
		return nil, err
	}
	synth, err := NewGeminiText(ctx, apiKey, cfg.SynthesisModel)
	if err != nil {
		return nil, err
	}
	imager, err := NewGeminiImage(ctx, apiKey, cfg.ImageModel)
	if err != nil {
		return nil, err
	}
	return NewService(scorer, synth, imager, logger)
}

// SetSleep replaces the sleep function used for backoff and pacing.
func (s *Service) SetSleep(fn func(time.Duration)) { s.sleep = fn }

func (s *Service) retryPolicy(run RunConfig) RetryPolicy {
	p := NewRetryPolicy(run.MaxRetries, run.BackoffSeconds)
	p.Retryable = RetryableAPIError
	p.Sleep = s.sleep
	p.OnRetry = func(attempt int, wait time.Duration, err error) {
		s.logf("Gemini APIエラー: %v。%.0f秒待機します...", err, wait.Seconds())
	}
	return p
}

// ScoreAll scores every row with a non-empty abstract against the need
// statement, strictly in table order, one call at a time with the model's
// mandatory pause after each success. The loaded table is never mutated; a
// new scored table is returned and published only when every eligible row
// succeeded. progress receives (rows scored, rows eligible).
func (s *Service) ScoreAll(ctx context.Context, table *PatentTable, run RunConfig, progress func(done, total int)) (*PatentTable, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, &LoadError{Err: errors.New("empty table")}
	}
	scored := table.Clone()
	total := scored.EligibleCount()
	policy := s.retryPolicy(run)
	pacer := Pacer{Model: s.scorer.Model(), Sleep: s.sleep}

	done := 0
	for i := range scored.Rows {
		abstract := scored.Rows[i].Abstract
		if abstract == "" {
			// Kept in the table with zero relevance, never sent out.
			continue
		}
		prompt := RelevancePrompt(abstract, run.Query)
		var reply string
		err := policy.Do(ctx, "関連度評価", func() error {
			var callErr error
			reply, callErr = s.scorer.Generate(ctx, prompt)
			return callErr
		})
		if err != nil {
			return nil, err
		}
		scored.Rows[i].RelevanceRaw = reply
		scored.Rows[i].Relevance = ExtractPercentage(reply)
		done++
		if progress != nil {
			progress(done, total)
		}
		pacer.Pause()
	}
	s.logf("関連度評価完了 (%d/%d件)", done, total)
	return scored, nil
}

// Synthesize concatenates the selected abstracts and asks the synthesis
// model for one solution narrative covering the four facets.
func (s *Service) Synthesize(ctx context.Context, selected []PatentRow, run RunConfig) (*SolutionResult, error) {
	combined := CombineAbstracts(selected)
	if combined == "" {
		return nil, errors.New("選択された特許要約がありません")
	}
	prompt := SolutionPrompt(combined, run.Query, run.ProductType)
	policy := s.retryPolicy(run)
	var narrative string
	err := policy.Do(ctx, "ソリューション生成", func() error {
		var callErr error
		narrative, callErr = s.synth.Generate(ctx, prompt)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	s.logf("ソリューション生成完了 (%d文字)", len([]rune(narrative)))
	return &SolutionResult{Narrative: narrative}, nil
}

// GenerateImage renders a product photo from the narrative. A response
// without an image part surfaces as ErrNoImage so the caller can show a
// message instead of failing the whole run.
func (s *Service) GenerateImage(ctx context.Context, solution *SolutionResult, run RunConfig) (*ProductImage, error) {
	if s.imager == nil {
		return nil, errors.New("image model is not configured")
	}
	if solution == nil || solution.Narrative == "" {
		return nil, ErrNoNarrative
	}
	prompt := ImagePrompt(solution.Narrative, run.ProductType)
	policy := s.retryPolicy(run)
	var data []byte
	err := policy.Do(ctx, "画像生成", func() error {
		var callErr error
		data, callErr = s.imager.Generate(ctx, prompt)
		if errors.Is(callErr, ErrNoImage) {
			// An imageless reply is a final answer, not a transient fault.
			data = nil
			return nil
		}
		return callErr
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNoImage
	}
	img, err := DecodeProductImage(data)
	if err != nil {
		return nil, err
	}
	bounds := img.Image.Bounds()
	s.logf("画像生成完了 (%dx%d)", bounds.Dx(), bounds.Dy())
	return img, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
