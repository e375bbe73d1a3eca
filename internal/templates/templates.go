// Package templates holds the boundary-safe repair replies substituted for
// the language model's output when the gate triggers. Template selection is
// deterministic; only the rendered surface text is randomized so repeated
// repairs do not sound robotic.
package templates

import (
	"math/rand"
)

// Template ids. Rule-mapped ids match the rule name that selects them;
// IDClassifierTriggered covers MOVE verdicts with no rule hit, including the
// fail-safe path on classifier errors.
const (
	IDPersonalInfoRequest    = "personal_info_request"
	IDExplicitContentRequest = "explicit_content_request"
	IDLocationPressure       = "location_pressure"
	IDCoercion               = "coercion"
	IDClassifierTriggered    = "classifier_triggered"
)

var ruleTemplates = map[string]string{
	"personal_info_request":    IDPersonalInfoRequest,
	"explicit_content_request": IDExplicitContentRequest,
	"location_pressure":        IDLocationPressure,
	"coercion":                 IDCoercion,
}

var safeRedirects = []string{
	"Totally fair—let's keep it comfortable. I'm happy to stay here and chat. What are you up to this week?",
	"Got it. I don't want to push. Want to switch topics—what have you been enjoying lately?",
	"No worries at all. We can keep this low-key. What kind of plans do you have for the weekend?",
	"Thanks for saying that. I'll slow down. What's something you're looking forward to right now?",
}

var softeners = []string{
	"No pressure.",
	"Only if you feel comfortable.",
	"Totally fine either way.",
}

// softenerRate is the chance a rendered reply gets a trailing softener.
const softenerRate = 0.35

// ForRule maps a rule name to its repair template id. Unknown rules fall
// back to the generic classifier-triggered template so adding a rule never
// requires touching the gating policy.
func ForRule(rule string) string {
	if id, ok := ruleTemplates[rule]; ok {
		return id
	}
	return IDClassifierTriggered
}

// IDs returns every known template id.
func IDs() []string {
	return []string{
		IDPersonalInfoRequest,
		IDExplicitContentRequest,
		IDLocationPressure,
		IDCoercion,
		IDClassifierTriggered,
	}
}

// Known reports whether id names a template.
func Known(id string) bool {
	if id == IDClassifierTriggered {
		return true
	}
	for _, v := range ruleTemplates {
		if v == id {
			return true
		}
	}
	return false
}

// Render produces the reply text for a template id. rng may be nil, in which
// case an unseeded source is used; evaluation runs pass a seeded rng for
// reproducible output.
func Render(id string, rng *rand.Rand) string {
	_ = id // all templates currently share the redirect pool
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	reply := safeRedirects[rng.Intn(len(safeRedirects))]
	if rng.Float64() < softenerRate {
		reply = reply + " " + softeners[rng.Intn(len(softeners))]
	}
	return reply
}
