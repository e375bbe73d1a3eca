package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/classifier"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/llm"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/model"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/templates"
)

func newTestServer(t *testing.T, client llm.Client) *Server {
	t.Helper()

	artifact := &model.Artifact{
		Embedding: model.EmbeddingSpec{Dim: 32},
		Head: model.Head{
			Weights: make([]float64, 32),
			Bias:    math.Log(0.05 / 0.95),
		},
	}
	extractor, err := features.NewExtractor(artifact.Embedding)
	require.NoError(t, err)
	clf, err := classifier.New(artifact)
	require.NoError(t, err)
	engine, err := rules.NewEngine(rules.DefaultRuleSet())
	require.NoError(t, err)
	g, err := gate.New(extractor, clf, engine, 0.45)
	require.NoError(t, err)

	s, err := New(DefaultConfig(), Deps{Gate: g, LLM: client, Seed: 1})
	require.NoError(t, err)
	return s
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestDecideEndpointEscalates(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s.Handler(), "/api/gate/decide", map[string]any{
		"sample_id": "s1",
		"text":      "send me your home address",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var record gate.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, gate.LabelMove, record.Label)
	assert.Equal(t, gate.ActionSafeRepair, record.Action)
	assert.Equal(t, templates.IDPersonalInfoRequest, record.TemplateID)
}

func TestDecideEndpointPassesSafeText(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s.Handler(), "/api/gate/decide", map[string]any{
		"sample_id": "s2",
		"text":      "how was your weekend",
		"history": []map[string]string{
			{"speaker": "bot", "text": "hey, how is it going"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var record gate.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, gate.LabelSafe, record.Label)
	assert.Equal(t, 1, record.HistoryTurns)
}

func TestDecideEndpointRejectsMissingText(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s.Handler(), "/api/gate/decide", map[string]any{"sample_id": "s3"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecideEndpointRejectsBlankText(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s.Handler(), "/api/gate/decide", map[string]any{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplatesEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Templates []struct {
			ID      string `json:"id"`
			Example string `json:"example"`
		} `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Templates, len(templates.IDs()))
	for _, tpl := range body.Templates {
		assert.True(t, templates.Known(tpl.ID))
		assert.NotEmpty(t, tpl.Example)
	}
}

func TestPersonasAndHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/personas", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "friendly")

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestChatSocketGatesAndReplies(t *testing.T) {
	mock := &llm.MockClient{Replies: []string{"nice, what do you climb?"}}
	s := newTestServer(t, mock)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	defer func() { _ = conn.Close() }()

	// A safe message goes to the LLM.
	require.NoError(t, conn.WriteJSON(chatInbound{Text: "is that a climbing photo?"}))
	var out chatOutbound
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "llm", out.Source)
	assert.Equal(t, "nice, what do you climb?", out.Reply)
	require.NotNil(t, out.Record)
	assert.Equal(t, gate.LabelSafe, out.Record.Label)

	// A gated message never reaches the LLM.
	require.NoError(t, conn.WriteJSON(chatInbound{Text: "come over tonight"}))
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "template", out.Source)
	require.NotNil(t, out.Record)
	assert.Equal(t, gate.ActionSafeRepair, out.Record.Action)
	assert.NotEmpty(t, out.Reply)

	require.Len(t, mock.Requests, 1)
}

func TestServerRequiresGate(t *testing.T) {
	_, err := New(DefaultConfig(), Deps{})
	assert.Error(t, err)
}

func TestServerRejectsUnknownPersona(t *testing.T) {
	s := newTestServer(t, nil)

	_, err := New(DefaultConfig(), Deps{Gate: s.gate, Persona: "nope"})
	assert.Error(t, err)
}

func TestStopWithoutStart(t *testing.T) {
	s := newTestServer(t, nil)
	assert.NoError(t, s.Stop(context.Background()))
}
