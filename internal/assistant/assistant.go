// Package assistant bridges a conversational LLM caller to the offline
// tool dispatcher. The model only ever sees tool results; every answer
// about airport data is computed locally.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/flightwise/airquery/internal/config"
	"github.com/flightwise/airquery/internal/tools"
	"github.com/flightwise/airquery/pkg/logger"
)

const systemPrompt = `You are an aviation planning assistant. Answer questions about ` +
	`airports, routes, fuel stops, border crossings, notification requirements and ` +
	`country rules exclusively through the provided tools. Quote airport lines from ` +
	`tool output verbatim; never invent coordinates.`

// Session is one conversation with accumulated message history.
type Session struct {
	ID        string
	CreatedAt time.Time
	messages  []openai.ChatCompletionMessageParamUnion
}

// Service runs the chat/tool loop against the dispatcher.
type Service struct {
	client     openai.Client
	dispatcher *tools.Dispatcher
	cfg        config.AssistantConfig
	logger     *logger.Logger
}

// NewService creates a new assistant service.
func NewService(apiKey string, dispatcher *tools.Dispatcher, cfg config.AssistantConfig, logger *logger.Logger) *Service {
	if apiKey == "" {
		logger.Warn("OpenAI API key is empty - assistant features will not work")
	}

	return &Service{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger.Named("assistant"),
	}
}

// NewSession creates a fresh conversation.
func (s *Service) NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
		},
	}
}

// toolParams converts the dispatcher's definitions to function-calling
// parameters.
func toolParams() []openai.ChatCompletionToolParam {
	defs := tools.Definitions()
	params := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		params = append(params, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.Parameters),
			},
		})
	}
	return params
}

// Ask sends the user's question, resolves any tool calls the model makes
// and returns the final assistant text. Rounds are bounded by
// cfg.MaxRounds so a misbehaving model cannot loop forever.
func (s *Service) Ask(ctx context.Context, session *Session, question string) (string, error) {
	session.messages = append(session.messages, openai.UserMessage(question))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.cfg.Model),
		Temperature: openai.Float(s.cfg.Temperature),
		Tools:       toolParams(),
	}

	for round := 0; round < s.cfg.MaxRounds; round++ {
		params.Messages = session.messages

		completion, err := s.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("chat completion returned no choices")
		}

		msg := completion.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			// Some models inline a JSON tool call in the content instead
			// of using the tool-call channel; honor it once.
			if call := tools.ParseToolCall(msg.Content); call != nil {
				result := s.dispatcher.Execute(ctx, *call)
				session.messages = append(session.messages,
					openai.AssistantMessage(msg.Content),
					openai.UserMessage(resultText(result)))
				continue
			}

			session.messages = append(session.messages, openai.AssistantMessage(msg.Content))
			return msg.Content, nil
		}

		session.messages = append(session.messages, msg.ToParam())

		for _, tc := range msg.ToolCalls {
			call := tools.ToolCallRequest{Name: tc.Function.Name}
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &call.Arguments); err != nil {
				s.logger.Warn("Undecodable tool arguments",
					logger.String("tool", tc.Function.Name),
					logger.Error(err))
				session.messages = append(session.messages,
					openai.ToolMessage("Error: "+tools.ErrMalformedToolCall.Error(), tc.ID))
				continue
			}

			s.logger.Debug("Executing tool call",
				logger.String("session", session.ID),
				logger.String("tool", call.Name))

			result := s.dispatcher.Execute(ctx, call)
			session.messages = append(session.messages,
				openai.ToolMessage(resultText(result), tc.ID))
		}
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds", s.cfg.MaxRounds)
}

func resultText(r tools.Result) string {
	if r.IsError() {
		return r.Error
	}
	return r.Text
}
