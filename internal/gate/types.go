// Package gate is the safety-gating core: it composes feature extraction,
// the risk classifier, and the escalation rule engine into a single
// accept-or-repair decision per chat turn.
package gate

import (
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
)

// Label classifies a message.
type Label string

const (
	// LabelSafe means no boundary risk was detected.
	LabelSafe Label = "SAFE"
	// LabelMove means the message attempts unsafe forward progression.
	LabelMove Label = "MOVE"
)

// Action is the gate's terminal verdict for the chat loop.
type Action string

const (
	// ActionPassToLLM lets the language model produce the reply.
	ActionPassToLLM Action = "PASS_TO_LLM"
	// ActionSafeRepair substitutes a boundary-safe repair template.
	ActionSafeRepair Action = "SAFE_REPAIR"
)

// SourceKind tags which verdict source triggered a MOVE.
type SourceKind string

const (
	// SourceClassifier marks a score at or above the threshold.
	SourceClassifier SourceKind = "classifier"
	// SourceRule marks an escalation rule hit.
	SourceRule SourceKind = "rule"
	// SourceFailsafe marks the conservative substitute verdict used when the
	// classifier failed at inference time.
	SourceFailsafe SourceKind = "failsafe"
)

// VerdictSource records one cause of a MOVE verdict. Keeping causes tagged
// lets ablation reports split rules-only from classifier-only triggers
// without re-running inference.
type VerdictSource struct {
	Kind  SourceKind `json:"kind"`
	Rule  string     `json:"rule,omitempty"`
	Score float64    `json:"score,omitempty"`
}

// Message is one user turn presented to the gate. SampleID is a synthetic id
// assigned by the caller; the gate persists nothing itself.
type Message struct {
	SampleID string
	Text     string
	History  []features.Turn
}

// Decision is the gate's terminal output for one message.
type Decision struct {
	Label         Label           `json:"label"`
	PMove         float64         `json:"p_move"`
	Action        Action          `json:"action"`
	TemplateID    string          `json:"template_id,omitempty"`
	RuleHits      []rules.Hit     `json:"rule_hits,omitempty"`
	ThresholdUsed float64         `json:"threshold_used"`
	Sources       []VerdictSource `json:"sources,omitempty"`
}
