package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/roboco-io/coachmd/internal/llm"
)

// ChatContext is what the coach knows about the user going into a chat.
type ChatContext struct {
	Plan     string
	Critique string
	Extra    []string // additional documents, already as text
}

// String renders the context block for the system instruction.
func (c ChatContext) String() string {
	plan, critique := c.Plan, c.Critique
	if strings.TrimSpace(plan) == "" {
		plan = notGenerated
	}
	if strings.TrimSpace(critique) == "" {
		critique = notGenerated
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CAREER PLAN: %s\nRESUME CRITIQUE: %s", plan, critique)
	for _, extra := range c.Extra {
		if strings.TrimSpace(extra) != "" {
			fmt.Fprintf(&sb, "\n\nADDITIONAL CONTEXT:\n%s", extra)
		}
	}
	return sb.String()
}

// Chat is a multi-turn coaching conversation. It is safe for concurrent use,
// though turns are serialized.
type Chat struct {
	mu      sync.Mutex
	service *Service
	system  string
	history []llm.Message
}

// NewChat starts a conversation grounded in ctx.
func (s *Service) NewChat(ctx ChatContext) *Chat {
	return &Chat{
		service: s,
		system:  fmt.Sprintf(chatSystemPrompt, ctx.String()),
	}
}

// System returns the system instruction sent with every turn.
func (c *Chat) System() string {
	return c.system
}

// History returns a copy of the conversation so far.
func (c *Chat) History() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]llm.Message, len(c.history))
	copy(out, c.history)
	return out
}

// Send appends the user turn, asks the model, and records its reply. When the
// call fails the history is left as it was.
func (c *Chat) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("message is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]llm.Message, len(c.history), len(c.history)+1)
	copy(messages, c.history)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Text: text})

	req := c.service.request(llm.TierQuality, c.service.Options.ChatTemperature)
	req.System = c.system
	req.Messages = messages

	reply, err := c.service.generate(ctx, req, FallbackChat)
	if err != nil {
		return "", err
	}

	c.history = append(messages, llm.Message{Role: llm.RoleModel, Text: reply})
	return reply, nil
}
