package backstory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/config"
)

// ErrUnavailable is returned when backstory generation is not configured.
var ErrUnavailable = errors.New("backstory generation unavailable")

// Generator produces backstory text for a character.
type Generator interface {
	Generate(ctx context.Context, s Snapshot) (string, error)
}

// Disabled is the Generator used when no API key is configured.
type Disabled struct{}

// Generate always fails with ErrUnavailable.
func (Disabled) Generate(context.Context, Snapshot) (string, error) {
	return "", ErrUnavailable
}

// AnthropicGenerator calls the Anthropic Messages API.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// New returns a Generator for cfg. An empty API key yields Disabled.
//
// Precondition: cfg passed config validation.
func New(cfg config.BackstoryConfig, logger *zap.Logger, opts ...option.RequestOption) Generator {
	if cfg.APIKey == "" {
		return Disabled{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(cfg.Timeout),
	}
	return &AnthropicGenerator{
		client:    anthropic.NewClient(append(base, opts...)...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}
}

// Generate sends the backstory prompt for s and returns the model's text.
//
// Postcondition: the result is trimmed and non-empty when err is nil.
func (g *AnthropicGenerator) Generate(ctx context.Context, s Snapshot) (string, error) {
	g.logger.Debug("generating backstory", zap.String("name", s.Name), zap.String("model", g.model))
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(s))),
		},
	})
	if err != nil {
		g.logger.Warn("backstory request failed", zap.Error(err))
		return "", fmt.Errorf("backstory: generating for %q: %w", s.Name, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("backstory: generating for %q: empty response", s.Name)
	}
	g.logger.Info("backstory generated",
		zap.String("name", s.Name),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)
	return text, nil
}
