package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
)

const historyLimit = 10

// ModelGenerator writes reply text with a chat model. Products and chips come
// from the fallback generator; any model failure returns the fallback reply.
type ModelGenerator struct {
	chain    compose.Runnable[map[string]any, *schema.Message]
	fallback Generator
	prompts  *PromptBook
	logger   *zap.Logger
}

// NewModelGenerator compiles the prompt chain around chatModel.
func NewModelGenerator(ctx context.Context, chatModel model.ChatModel, fallback Generator, logger *zap.Logger) (*ModelGenerator, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback generator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile stylist chain: %w", err)
	}

	return &ModelGenerator{
		chain:    runnable,
		fallback: fallback,
		prompts:  NewPromptBook(),
		logger:   logger.Named("reply"),
	}, nil
}

func (g *ModelGenerator) Generate(ctx context.Context, req Request) (Reply, error) {
	base, err := g.fallback.Generate(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	if req.Kind != KindText && req.Kind != "" {
		return base, nil
	}

	input := map[string]any{
		"system":  g.prompts.BuildSystemPrompt(req.Mode, req.Text, base.Products),
		"history": buildHistoryMessages(req.History),
		"query":   req.Text,
	}

	msg, err := g.chain.Invoke(ctx, input)
	if err != nil {
		g.logger.Warn("model invoke failed, using canned reply", zap.Error(err))
		return base, nil
	}
	content := ""
	if msg != nil {
		content = strings.TrimSpace(msg.Content)
	}
	if content == "" {
		g.logger.Warn("model returned empty reply, using canned reply")
		return base, nil
	}

	g.logger.Debug("model reply generated", zap.String("mode", string(req.Mode)), zap.Int("length", len(content)))
	base.Content = content
	return base, nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			if msg.Content == "" {
				continue
			}
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
