package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"autotestgen/models"

	"github.com/google/uuid"
)

const (
	WelcomeMessage = "# Welcome to AutoTestGen\n\nI'm ready to generate your test cases. Please describe your feature or paste your code snippet below."
	EmptyReply     = "No response generated."
)

// Generator answers a single prompt. OllamaService and RelayClient both
// satisfy it.
type Generator interface {
	Generate(ctx context.Context, req models.GenerateRequest) (models.GenerateResponse, error)
}

// Conversation is one chat session: an append-only list of messages and
// an idle/generating state. At most one generation is in flight.
type Conversation struct {
	generator Generator
	model     string
	clock     Clock
	newID     func() string

	mu         sync.Mutex
	messages   []models.Message
	generating bool
	cancel     context.CancelFunc
	turn       uint64
}

type ConversationOption func(*Conversation)

// WithModel sets the model sent with every turn. Empty leaves the choice
// to the relay's default.
func WithModel(model string) ConversationOption {
	return func(c *Conversation) {
		c.model = model
	}
}

func WithClock(clock Clock) ConversationOption {
	return func(c *Conversation) {
		c.clock = clock
	}
}

func WithIDGenerator(newID func() string) ConversationOption {
	return func(c *Conversation) {
		c.newID = newID
	}
}

func NewConversation(generator Generator, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		generator: generator,
		clock:     SystemClock,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.messages = []models.Message{c.newMessage(models.RoleAssistant, WelcomeMessage)}
	return c
}

func (c *Conversation) Model() string {
	return c.model
}

// Send starts a turn. It returns false and does nothing when text is blank
// or a turn is already generating. The returned channel is closed once the
// reply (or error notice) has been appended.
func (c *Conversation) Send(text string) (<-chan struct{}, bool) {
	content := strings.TrimSpace(text)

	c.mu.Lock()
	if content == "" || c.generating {
		c.mu.Unlock()
		return nil, false
	}

	c.messages = append(c.messages, c.newMessage(models.RoleUser, content))
	c.generating = true
	c.turn++
	turn := c.turn
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	done := make(chan struct{})
	go c.generate(ctx, turn, content, done)
	return done, true
}

func (c *Conversation) generate(ctx context.Context, turn uint64, prompt string, done chan<- struct{}) {
	defer close(done)

	resp, err := c.generator.Generate(ctx, models.GenerateRequest{Prompt: prompt, Model: c.model})

	c.mu.Lock()
	defer c.mu.Unlock()

	// A reset happened while the call was in flight.
	if turn != c.turn {
		return
	}
	c.cancel()
	c.cancel = nil

	var reply string
	switch {
	case err != nil:
		log.Printf("Generation failed: %v", err)
		reply = c.errorNotice(err)
	case resp.Response == "":
		reply = EmptyReply
	default:
		reply = resp.Response
	}
	c.messages = append(c.messages, c.newMessage(models.RoleAssistant, reply))
	c.generating = false
}

// Reset drops every message but a fresh welcome and abandons the
// in-flight turn, if any.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.turn++
	c.generating = false
	c.messages = []models.Message{c.newMessage(models.RoleAssistant, WelcomeMessage)}
}

// Messages returns a copy of the conversation in insertion order.
func (c *Conversation) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Generating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating
}

func (c *Conversation) newMessage(role models.Role, content string) models.Message {
	return models.Message{
		ID:        c.newID(),
		Role:      role,
		Content:   content,
		Timestamp: c.clock(),
	}
}

func (c *Conversation) errorNotice(err error) string {
	reason := err.Error()
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		reason = relayErr.Message
	}

	model := c.model
	if model == "" {
		model = "the model"
	}
	return fmt.Sprintf("### ❌ Error\n%s\n\n*Please ensure Ollama is running and %s is pulled.*", reason, model)
}
