package llm

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/caseflow/helpdesk/internal/config"
	"github.com/caseflow/helpdesk/internal/domain"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

// OpenAIProvider talks to an OpenAI-compatible completion endpoint. The
// hosted service the original deployment used exposes the same API shape,
// so only the base URL differs.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds a provider from config.
func NewOpenAIProvider(cfg config.LLMConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Complete runs a blocking chat completion and returns the full text.
func (p *OpenAIProvider) Complete(ctx context.Context, system string, messages []domain.ChatMessage, opts Options) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    buildMessages(system, messages),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", apperrors.NewUpstreamFailure("completion service request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewUpstreamFailure("completion service returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamCompletion opens a streaming completion.
func (p *OpenAIProvider) StreamCompletion(ctx context.Context, system string, messages []domain.ChatMessage, opts Options) (Stream, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    buildMessages(system, messages),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("completion service request failed", err)
	}
	return &openaiStream{inner: stream}, nil
}

type openaiStream struct {
	inner *openai.ChatCompletionStream
}

func (s *openaiStream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *openaiStream) Close() error {
	return s.inner.Close()
}

func buildMessages(system string, messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == domain.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}
