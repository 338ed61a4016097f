package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/apperrors"
	"github.com/havenlink/haven-engine/pkg/config"
	"github.com/havenlink/haven-engine/pkg/logging"
	"github.com/havenlink/haven-engine/pkg/models"
)

const triageSystemPrompt = `You triage messages from people seeking help after domestic abuse.
Answer with exactly one word: "legal" if the message is primarily about legal matters
(courts, police, custody, protection orders, rights), or "counsellor" otherwise.
When in doubt, answer "counsellor".`

// llmClassifier asks an OpenAI-compatible chat endpoint for the category.
// It honors the same contract as the keyword classifier; a model failure
// is returned to the caller rather than downgraded to a default
// recommendation.
type llmClassifier struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewLLMClassifier creates a classifier backed by an OpenAI-compatible
// chat completion endpoint.
func NewLLMClassifier(cfg *config.ClassifierConfig, logger *zap.Logger) Classifier {
	clientCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		clientCfg.BaseURL = cfg.LLMBaseURL
	}

	return &llmClassifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.LLMModel,
		logger: logger.Named("llm-classifier"),
	}
}

// Classify asks the model for a category recommendation.
func (c *llmClassifier) Classify(ctx context.Context, text string) (*models.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("situation description is empty: %w", apperrors.ErrInvalidInput)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   5,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: triageSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		c.logger.Error("Triage completion failed", zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("triage completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("triage completion returned no choices")
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	category := models.CategoryCounsellor
	rationale := rationaleCounsellor
	if strings.HasPrefix(answer, "legal") {
		category = models.CategoryLegal
		rationale = rationaleLegal
	} else if !strings.HasPrefix(answer, "counsellor") {
		// Unparseable answers fall to the supportive default, same
		// tie-break policy as the keyword classifier.
		c.logger.Warn("Unexpected triage answer, defaulting to counsellor",
			zap.String("answer", logging.TruncateString(answer, 32)))
	}

	return &models.ClassificationResult{
		RecommendedCategory: category,
		Rationale:           rationale,
	}, nil
}

// Ensure llmClassifier implements Classifier at compile time.
var _ Classifier = (*llmClassifier)(nil)
