package ai

import (
	"context"
	"strings"

	"collabnote/config"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client     *openai.Client
	chatModel  string
	embedModel string
}

func NewAIService(cfg *config.Config) *AIService {
	aiConfig := openai.DefaultConfig(cfg.AIAPIKey)
	if cfg.AIBaseURL != "" {
		aiConfig.BaseURL = cfg.AIBaseURL
	}

	return &AIService{
		client:     openai.NewClientWithConfig(aiConfig),
		chatModel:  cfg.AIChatModel,
		embedModel: cfg.AIEmbedModel,
	}
}

// SuggestTitle proposes a short title for an untitled note.
func (s *AIService) SuggestTitle(ctx context.Context, description string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a note assistant. Reply with a title of at most six words for the following note, without quotes.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: description,
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`), nil
}

func (s *AIService) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	// newlines hurt embedding quality
	text = strings.ReplaceAll(text, "\n", " ")

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.embedModel),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}

	return resp.Data[0].Embedding, nil
}
