package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/llm"
)

// chatInbound is one user message on the chat socket.
type chatInbound struct {
	Text string `json:"text"`
}

// chatOutbound is the server's answer: the simulated partner's reply plus
// the gate record that produced it. Source is "llm" or "template".
type chatOutbound struct {
	Reply  string       `json:"reply"`
	Source string       `json:"source"`
	Record *gate.Record `json:"record,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// handleChatSocket runs one practice conversation over a websocket. History
// accumulates per connection; a new connection starts a fresh conversation.
func (s *Server) handleChatSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ctx := c.Request.Context()
	var gateHistory []features.Turn
	llmHistory := []llm.Message{{Role: "system", Content: s.persona.SystemPrompt}}
	turn := 0

	for {
		var in chatInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read: %v", err)
			}
			return
		}
		turn++

		out := s.answer(ctx, fmt.Sprintf("ws_%d", turn), in.Text, gateHistory, &llmHistory)
		if out.Error == "" {
			gateHistory = append(gateHistory,
				features.Turn{Speaker: "user", Text: in.Text},
				features.Turn{Speaker: "bot", Text: out.Reply},
			)
		}

		if err := conn.WriteJSON(out); err != nil {
			s.logger.Warn("websocket write: %v", err)
			return
		}
	}
}

// answer gates one message and produces the reply, consulting the LLM only
// for messages the gate passes through.
func (s *Server) answer(ctx context.Context, sampleID, text string, gateHistory []features.Turn, llmHistory *[]llm.Message) chatOutbound {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.StartTurn(ctx, sampleID)
		defer span.End()
	}

	msg := gate.Message{SampleID: sampleID, Text: text, History: gateHistory}
	decision, err := s.gate.Decide(ctx, msg)
	if err != nil {
		return chatOutbound{Error: err.Error()}
	}
	record := gate.BuildRecord(msg, decision)

	if decision.Action == gate.ActionSafeRepair {
		return chatOutbound{
			Reply:  s.render(decision.TemplateID),
			Source: "template",
			Record: &record,
		}
	}

	if s.llmClient == nil {
		return chatOutbound{
			Reply:  "That works. What would you say next?",
			Source: "template",
			Record: &record,
		}
	}

	*llmHistory = append(*llmHistory, llm.Message{Role: "user", Content: text})
	start := time.Now()
	resp, err := s.llmClient.Chat(ctx, llm.ChatRequest{Messages: *llmHistory})
	if err != nil {
		return chatOutbound{Error: err.Error(), Record: &record}
	}
	if s.metrics != nil {
		s.metrics.ObserveLLMLatency(ctx, time.Since(start).Seconds(), s.llmClient.Model())
	}
	*llmHistory = append(*llmHistory, llm.Message{Role: "assistant", Content: resp.Content})

	return chatOutbound{Reply: resp.Content, Source: "llm", Record: &record}
}
