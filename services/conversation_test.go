package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"autotestgen/models"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []models.GenerateRequest
	release chan struct{}
	resp    models.GenerateResponse
	err     error
}

func (g *fakeGenerator) Generate(ctx context.Context, req models.GenerateRequest) (models.GenerateResponse, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, req)
	g.mu.Unlock()

	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return models.GenerateResponse{}, ctx.Err()
		}
	}
	return g.resp, g.err
}

func (g *fakeGenerator) calls() []models.GenerateRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.GenerateRequest(nil), g.prompts...)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("turn did not complete")
	}
}

func TestConversationStartsWithWelcome(t *testing.T) {
	conv := NewConversation(&fakeGenerator{})

	msgs := conv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one seed message, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleAssistant || msgs[0].Content != WelcomeMessage {
		t.Errorf("unexpected seed message %+v", msgs[0])
	}
	if conv.Generating() {
		t.Error("new conversation should be idle")
	}
}

func TestConversationSendSuccess(t *testing.T) {
	gen := &fakeGenerator{resp: models.GenerateResponse{Response: "| ID | Title |"}}
	conv := NewConversation(gen, WithModel("llama3.2"))

	done, ok := conv.Send("  login page  ")
	if !ok {
		t.Fatal("send should be accepted")
	}
	waitDone(t, done)

	msgs := conv.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != models.RoleUser || msgs[1].Content != "login page" {
		t.Errorf("unexpected user message %+v", msgs[1])
	}
	if msgs[2].Role != models.RoleAssistant || msgs[2].Content != "| ID | Title |" {
		t.Errorf("unexpected reply %+v", msgs[2])
	}
	if conv.Generating() {
		t.Error("conversation should be idle after the reply")
	}

	calls := gen.calls()
	if len(calls) != 1 || calls[0].Prompt != "login page" || calls[0].Model != "llama3.2" {
		t.Errorf("unexpected generator calls %+v", calls)
	}
}

func TestConversationIgnoresBlankInput(t *testing.T) {
	gen := &fakeGenerator{}
	conv := NewConversation(gen)

	for _, text := range []string{"", "   ", "\n\t "} {
		if done, ok := conv.Send(text); ok || done != nil {
			t.Errorf("blank input %q should be ignored", text)
		}
	}
	if len(conv.Messages()) != 1 {
		t.Errorf("blank input must not append messages")
	}
	if len(gen.calls()) != 0 {
		t.Errorf("blank input must not call the relay")
	}
}

func TestConversationSingleInFlight(t *testing.T) {
	gen := &fakeGenerator{release: make(chan struct{}), resp: models.GenerateResponse{Response: "first"}}
	conv := NewConversation(gen)

	done, ok := conv.Send("first")
	if !ok {
		t.Fatal("first send should be accepted")
	}
	if !conv.Generating() {
		t.Error("conversation should be generating")
	}
	if _, ok := conv.Send("second"); ok {
		t.Error("second send must be a no-op while generating")
	}
	if n := len(conv.Messages()); n != 2 {
		t.Errorf("expected 2 messages while generating, got %d", n)
	}

	close(gen.release)
	waitDone(t, done)

	if _, ok := conv.Send("third"); !ok {
		t.Error("send should be accepted again once idle")
	}
}

func TestConversationEmptyReply(t *testing.T) {
	conv := NewConversation(&fakeGenerator{})

	done, _ := conv.Send("anything")
	waitDone(t, done)

	msgs := conv.Messages()
	if got := msgs[len(msgs)-1].Content; got != EmptyReply {
		t.Errorf("expected fallback notice, got %q", got)
	}
}

func TestConversationErrorNotice(t *testing.T) {
	gen := &fakeGenerator{err: &RelayError{
		Kind:    KindModelNotFound,
		Status:  http.StatusNotFound,
		Message: "Model 'llama3.2' not found in Ollama.",
	}}
	conv := NewConversation(gen, WithModel("llama3.2"))

	done, _ := conv.Send("anything")
	waitDone(t, done)

	last := conv.Messages()[2]
	if last.Role != models.RoleAssistant {
		t.Errorf("error notice should be an assistant message")
	}
	if !strings.HasPrefix(last.Content, "### ❌ Error\n") {
		t.Errorf("missing error heading: %q", last.Content)
	}
	if !strings.Contains(last.Content, "Model 'llama3.2' not found in Ollama.") {
		t.Errorf("missing failure reason: %q", last.Content)
	}
	if conv.Generating() {
		t.Error("conversation should be idle after a failure")
	}
}

func TestConversationPlainErrorReason(t *testing.T) {
	conv := NewConversation(&fakeGenerator{err: errors.New("boom")})

	done, _ := conv.Send("anything")
	waitDone(t, done)

	if last := conv.Messages()[2]; !strings.Contains(last.Content, "boom") {
		t.Errorf("missing failure reason: %q", last.Content)
	}
}

func TestConversationPreservesInsertionOrder(t *testing.T) {
	var n int
	gen := &fakeGenerator{resp: models.GenerateResponse{Response: "reply"}}
	conv := NewConversation(gen, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("msg-%d", n)
	}))

	for i := 0; i < 5; i++ {
		done, ok := conv.Send(fmt.Sprintf("prompt %d", i))
		if !ok {
			t.Fatalf("send %d rejected", i)
		}
		waitDone(t, done)
	}

	msgs := conv.Messages()
	if len(msgs) != 11 {
		t.Fatalf("expected 11 messages, got %d", len(msgs))
	}
	for i, msg := range msgs {
		if want := fmt.Sprintf("msg-%d", i+1); msg.ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, msg.ID)
		}
	}
	for i := 0; i < 5; i++ {
		if got := msgs[1+2*i].Content; got != fmt.Sprintf("prompt %d", i) {
			t.Errorf("turn %d out of order: %q", i, got)
		}
	}
}

func TestConversationMessagesIsACopy(t *testing.T) {
	conv := NewConversation(&fakeGenerator{})

	msgs := conv.Messages()
	msgs[0].Content = "changed"
	if conv.Messages()[0].Content != WelcomeMessage {
		t.Error("callers must not be able to mutate the conversation")
	}
}

func TestConversationResetDropsInFlightReply(t *testing.T) {
	gen := &fakeGenerator{release: make(chan struct{}), resp: models.GenerateResponse{Response: "late"}}
	conv := NewConversation(gen)

	done, _ := conv.Send("slow")
	conv.Reset()
	waitDone(t, done)

	msgs := conv.Messages()
	if len(msgs) != 1 || msgs[0].Content != WelcomeMessage {
		t.Errorf("reset should leave only the welcome message, got %+v", msgs)
	}
	if conv.Generating() {
		t.Error("reset should return to idle")
	}
}

func TestConversationTimestampsFromClock(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	conv := NewConversation(&fakeGenerator{}, WithClock(func() time.Time { return at }))

	if got := conv.Messages()[0].Timestamp; !got.Equal(at) {
		t.Errorf("expected %v, got %v", at, got)
	}
	if FormatTimestamp(at) != "09:30" {
		t.Errorf("unexpected format %q", FormatTimestamp(at))
	}
}
