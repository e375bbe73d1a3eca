package gate

import (
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
)

// previewRunes bounds the message excerpt kept in a record.
const previewRunes = 120

// Record is the auditable account of one gate decision, and the sole
// contract exposed to the chat loop and the evaluation scripts. Building a
// record is pure; persistence belongs to the caller.
type Record struct {
	SampleID      string          `json:"sample_id"`
	Preview       string          `json:"preview"`
	HistoryTurns  int             `json:"history_turns"`
	Label         Label           `json:"label"`
	PMove         float64         `json:"p_move"`
	Action        Action          `json:"action"`
	TemplateID    string          `json:"template_id,omitempty"`
	RuleHits      []rules.Hit     `json:"rule_hits,omitempty"`
	ThresholdUsed float64         `json:"threshold_used"`
	Sources       []VerdictSource `json:"sources,omitempty"`
}

// BuildRecord summarizes a message and its decision into a Record.
func BuildRecord(msg Message, decision Decision) Record {
	return Record{
		SampleID:      msg.SampleID,
		Preview:       truncateRunes(msg.Text, previewRunes),
		HistoryTurns:  len(msg.History),
		Label:         decision.Label,
		PMove:         decision.PMove,
		Action:        decision.Action,
		TemplateID:    decision.TemplateID,
		RuleHits:      decision.RuleHits,
		ThresholdUsed: decision.ThresholdUsed,
		Sources:       decision.Sources,
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
