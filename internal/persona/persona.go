// Package persona holds the practice-partner personas the chat loop can
// simulate. Each persona is a system prompt; the gate is persona-agnostic.
package persona

import (
	"fmt"
	"sort"
)

// Persona describes one simulated chat partner.
type Persona struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
}

var registry = map[string]Persona{
	"friendly": {
		Name:        "friendly",
		Description: "Warm and curious, keeps things platonic",
		SystemPrompt: "You are a natural conversational partner on a dating app. " +
			"Keep replies short (1-3 sentences). Ask exactly one thoughtful question. " +
			"Be warm, curious, and specific.",
	},
	"flirty_adult_ok": {
		Name:        "flirty_adult_ok",
		Description: "Playful and lightly flirty, boundaries always respected",
		SystemPrompt: "You are playful and lightly flirty on a dating app. Adult topics are allowed if mutual and respectful. " +
			"Never be coercive, never push for address/location, and always respect boundaries. " +
			"Keep replies short (1-2 sentences). Ask exactly one engaging question.",
	},
}

// Default is the persona used when none is configured.
const Default = "friendly"

// Get looks up a persona by name.
func Get(name string) (Persona, error) {
	p, ok := registry[name]
	if !ok {
		return Persona{}, fmt.Errorf("unknown persona %q (known: %v)", name, Names())
	}
	return p, nil
}

// Names lists known persona names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every persona, sorted by name.
func All() []Persona {
	personas := make([]Persona, 0, len(registry))
	for _, name := range Names() {
		personas = append(personas, registry[name])
	}
	return personas
}
