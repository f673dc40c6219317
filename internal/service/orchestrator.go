// Package service holds the conversation orchestrator that sits between
// the transport handlers, the model boundary, and the tool registry.
package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/llm"
	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/internal/session"
	"github.com/devburger/ordering-agent/pkg/logger"
	"github.com/devburger/ordering-agent/pkg/metrics"
)

// FallbackReply is returned whenever the model cannot produce an answer.
// The customer always gets a reply, never an error.
const FallbackReply = "Desculpe, tive um erro interno. Pode repetir?"

// SystemPrompt seeds every new session. It fixes the agent's persona and
// the rules for when each tool may be called.
const SystemPrompt = `Você é o atendente virtual da hamburgueria DevBurger. Seja simpático, direto e responda sempre em português.

Regras:
- Use a ferramenta listMenu sempre que o cliente perguntar sobre o cardápio, itens ou preços. Nunca invente produtos ou valores.
- Antes de finalizar um pedido, confirme com o cliente: nome completo, telefone, endereço de entrega e todos os itens com quantidades.
- Só chame finalizeOrder depois que o cliente confirmar todos os dados.
- Se o cliente pedir algo que não está no cardápio, avise e sugira alternativas do cardápio.
- Não fale sobre assuntos fora do atendimento da hamburgueria.`

// ToolExecutor is what the orchestrator needs from the tool registry.
type ToolExecutor interface {
	Definitions() []llm.ToolDefinition
	Execute(ctx context.Context, name string, rawArgs json.RawMessage) string
}

// ReplyObserver is notified after every reply leaves the orchestrator.
type ReplyObserver interface {
	Reply(ctx context.Context, event model.ReplyEvent)
}

// Orchestrator drives the model loop for one customer message at a time.
type Orchestrator struct {
	client   llm.Client
	model    string
	sessions *session.Store
	tools    ToolExecutor
	observer ReplyObserver
	logger   *logger.Logger
	now      func() time.Time
}

// NewOrchestrator wires the conversation loop.
func NewOrchestrator(client llm.Client, modelName string, sessions *session.Store, tools ToolExecutor, observer ReplyObserver, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		client:   client,
		model:    modelName,
		sessions: sessions,
		tools:    tools,
		observer: observer,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HandleMessage appends the customer's text to their session, runs at most
// one tool round against the model, persists every turn, and returns the
// reply text. It never returns an error: any failure collapses into
// FallbackReply so the conversation keeps going.
func (o *Orchestrator) HandleMessage(ctx context.Context, customerID, text string) string {
	sess := o.sessions.Acquire(customerID)
	defer o.sessions.Release(sess)

	sess.Append(model.UserTurn(text, o.now()))

	first, err := o.complete(ctx, sess)
	if err != nil {
		o.logger.Error("model call failed",
			zap.String("customer_id", customerID),
			zap.Error(err))
		reply := FallbackReply
		sess.Append(model.AssistantTurn(reply, o.now()))
		o.notify(ctx, customerID, reply, false)
		return reply
	}

	if len(first.ToolCalls) == 0 {
		sess.Append(model.AssistantTurn(first.Content, o.now()))
		o.notify(ctx, customerID, first.Content, false)
		return first.Content
	}

	// Tool round: record the intent verbatim, execute each call in order,
	// and pair every result to its call id before asking for the final text.
	intents := make([]model.ToolCall, len(first.ToolCalls))
	for i, call := range first.ToolCalls {
		intents[i] = model.ToolCall{ID: call.ID, Name: call.Name, Arguments: call.Arguments}
	}
	sess.Append(model.ToolIntentTurn(intents, o.now()))

	for _, call := range first.ToolCalls {
		result := o.tools.Execute(ctx, call.Name, json.RawMessage(call.Arguments))
		sess.Append(model.ToolResultTurn(call.ID, call.Name, result, o.now()))
	}

	second, err := o.complete(ctx, sess)
	if err != nil {
		o.logger.Error("model call failed after tool round",
			zap.String("customer_id", customerID),
			zap.Error(err))
		reply := FallbackReply
		sess.Append(model.AssistantTurn(reply, o.now()))
		o.notify(ctx, customerID, reply, true)
		return reply
	}

	sess.Append(model.AssistantTurn(second.Content, o.now()))
	o.notify(ctx, customerID, second.Content, true)
	return second.Content
}

func (o *Orchestrator) complete(ctx context.Context, sess *session.Session) (*llm.CompletionResponse, error) {
	start := time.Now()
	resp, err := o.client.Complete(ctx, &llm.CompletionRequest{
		Model:    o.model,
		Messages: toMessages(sess.Turns()),
		Tools:    o.tools.Definitions(),
	})
	if err != nil {
		metrics.RecordLLMRequest(o.client.Name(), "error", time.Since(start).Seconds(), 0, 0)
		return nil, err
	}
	metrics.RecordLLMRequest(o.client.Name(), "ok", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
	return resp, nil
}

func (o *Orchestrator) notify(ctx context.Context, customerID, reply string, toolRound bool) {
	if o.observer == nil {
		return
	}
	o.observer.Reply(ctx, model.ReplyEvent{
		CustomerID: customerID,
		Reply:      reply,
		ToolRound:  toolRound,
		CreatedAt:  o.now(),
	})
}

func toMessages(turns []model.Turn) []llm.ChatMessage {
	out := make([]llm.ChatMessage, len(turns))
	for i, turn := range turns {
		msg := llm.ChatMessage{
			Role:       string(turn.Role),
			Content:    turn.Content,
			ToolCallID: turn.ToolCallID,
			Name:       turn.Name,
		}
		for _, call := range turn.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, llm.ToolCall{
				ID:        call.ID,
				Name:      call.Name,
				Arguments: call.Arguments,
			})
		}
		out[i] = msg
	}
	return out
}
