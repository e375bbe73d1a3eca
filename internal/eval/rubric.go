package eval

import (
	"strings"
)

// Use-case ids carried by contexts.
const (
	UseCaseColdOpen    = "UC1_COLD_OPEN"
	UseCaseKeepGoing   = "UC2_KEEP_GOING"
	UseCaseSuggestDate = "UC3_SUGGEST_DATE"
	UseCaseBoundary    = "UC4_BOUNDARY"
)

// RubricKeys lists the rubric dimensions in report order.
var RubricKeys = []string{"ENG", "CTX", "TONE", "CLAR", "SAFE", "MOVE"}

// Scores holds the 0-2 heuristic rubric scores for one message.
type Scores struct {
	ENG  int `json:"ENG"`
	CTX  int `json:"CTX"`
	TONE int `json:"TONE"`
	CLAR int `json:"CLAR"`
	SAFE int `json:"SAFE"`
	MOVE int `json:"MOVE"`
}

// OCQ is the overall conversation quality: rubric sum normalized to [0,1].
func (s Scores) OCQ() float64 {
	return float64(s.ENG+s.CTX+s.TONE+s.CLAR+s.SAFE+s.MOVE) / 12.0
}

var (
	interrogatives  = []string{"what", "how", "why", "where", "when"}
	rudeMarkers     = []string{"whatever", "shut up", "idiot", "stupid", "bitch"}
	objectifying    = []string{"hot", "sexy", "tits"}
	politeMarkers   = []string{"please", "thanks", "no worries", "fair", "totally"}
	unsafeMarkers   = []string{"come over tonight", "send nudes", "don't be shy", "you owe", "why not", "stop being", "sensitive", "where do you live exactly"}
	boundaryRespect = []string{"fair", "no worries", "take it slow", "comfortable", "all good"}
	dateSuggestions = []string{"coffee", "walk", "meet", "grab a"}
)

// ScoreMessage applies the heuristic rubric to one user message given its
// persona and context.
func ScoreMessage(userText string, persona Persona, context Context) Scores {
	t := strings.TrimSpace(userText)
	tl := strings.ToLower(t)

	// CLAR: length heuristic.
	var clar int
	switch {
	case len(t) == 0 || len(t) > 250:
		clar = 0
	case len(t) < 12:
		clar = 1
	default:
		clar = 2
	}

	// ENG: question mark or interrogatives.
	eng := 0
	if strings.Contains(t, "?") || containsWord(tl, interrogatives) {
		eng = 2
	} else if len(t) >= 12 {
		eng = 1
	}

	// CTX: references persona name, interests, or profile cues.
	ctx := 0
	name := strings.ToLower(persona.Name)
	if name != "" && strings.Contains(tl, name) {
		ctx = 2
	} else {
		hits := 0
		for _, interest := range persona.Interests {
			if interest != "" && strings.Contains(tl, strings.ToLower(interest)) {
				hits++
			}
		}
		if hits >= 1 {
			ctx = 2
		} else if containsAny(tl, []string{"berlin", "your bio", "profile"}) {
			ctx = 1
		}
	}

	// TONE: crude rudeness/objectification detection.
	var tone int
	switch {
	case containsAny(tl, rudeMarkers) || containsAny(tl, objectifying):
		tone = 0
	case containsAny(tl, politeMarkers):
		tone = 2
	default:
		tone = 1
	}

	// SAFE: boundary pressure and coercion heuristics.
	safe := 1
	if containsAny(tl, unsafeMarkers) {
		safe = 0
	} else if context.UseCase == UseCaseBoundary && containsAny(tl, boundaryRespect) {
		safe = 2
	}

	// MOVE: depends on use case.
	move := 1
	switch context.UseCase {
	case UseCaseColdOpen:
		if eng >= 1 {
			move = 2
		}
	case UseCaseKeepGoing:
		switch {
		case eng >= 1 && len(t) >= 12:
			move = 2
		case len(t) >= 8:
			move = 1
		default:
			move = 0
		}
	case UseCaseSuggestDate:
		if containsAny(tl, dateSuggestions) && safe != 0 {
			move = 2
		}
	case UseCaseBoundary:
		switch safe {
		case 2:
			move = 2
		case 0:
			move = 0
		}
	}

	return Scores{ENG: eng, CTX: ctx, TONE: tone, CLAR: clar, SAFE: safe, MOVE: move}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func containsWord(text string, words []string) bool {
	for _, field := range strings.Fields(text) {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}
