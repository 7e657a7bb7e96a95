package service

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/liubai-app/liubai/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

type GenerateRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Generator produces a reply as a lazy sequence of text fragments. A non-nil error
// ends the sequence; fragments yielded before it were real output.
type Generator interface {
	Stream(ctx context.Context, req GenerateRequest) iter.Seq2[string, error]
}

// LLMGenerator streams chat completions from an OpenAI-compatible endpoint.
type LLMGenerator struct {
	llm llms.Model
}

func NewLLMGenerator(cfg config.LLMConfig) (*LLMGenerator, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	return &LLMGenerator{llm: llm}, nil
}

func NewLLMGeneratorWithModel(llm llms.Model) *LLMGenerator {
	return &LLMGenerator{llm: llm}
}

func (g *LLMGenerator) Stream(ctx context.Context, req GenerateRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		chunks := make(chan string)
		done := make(chan error, 1)

		go func() {
			defer close(done)
			var streamed atomic.Bool
			msgs := []llms.MessageContent{
				llms.TextParts(schema.ChatMessageTypeSystem, req.System),
				llms.TextParts(schema.ChatMessageTypeHuman, req.Prompt),
			}
			resp, err := g.llm.GenerateContent(ctx, msgs,
				llms.WithMaxTokens(req.MaxTokens),
				llms.WithTemperature(req.Temperature),
				llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
					select {
					case chunks <- string(chunk):
						if len(chunk) > 0 {
							streamed.Store(true)
						}
						return nil
					case <-ctx.Done():
						return ctx.Err()
					}
				}),
			)
			// Some compatible endpoints ignore stream=true and answer in one piece.
			if err == nil && !streamed.Load() && resp != nil && len(resp.Choices) > 0 {
				if text := resp.Choices[0].Content; text != "" {
					select {
					case chunks <- text:
					case <-ctx.Done():
					}
				}
			}
			close(chunks)
			done <- err
		}()

		for c := range chunks {
			if c == "" {
				continue
			}
			if !yield(c, nil) {
				cancel()
				for range chunks {
				}
				return
			}
		}
		if err := <-done; err != nil {
			yield("", err)
		}
	}
}

// Collect drains seq into one string, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) (string, error) {
	var sb strings.Builder
	for chunk, err := range seq {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk)
	}
	return sb.String(), nil
}
