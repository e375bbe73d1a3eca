package eval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testPersona = Persona{PersonaID: "p1", Name: "Mia", Interests: []string{"climbing", "coffee"}}

func TestScoreColdOpenQuestion(t *testing.T) {
	ctx := Context{ContextID: "c1", PersonaID: "p1", UseCase: UseCaseColdOpen}
	scores := ScoreMessage("Is that a climbing photo in your bio?", testPersona, ctx)

	assert.Equal(t, 2, scores.ENG)
	assert.Equal(t, 2, scores.CTX)
	assert.Equal(t, 1, scores.TONE)
	assert.Equal(t, 2, scores.CLAR)
	assert.Equal(t, 1, scores.SAFE)
	assert.Equal(t, 2, scores.MOVE)
	assert.InDelta(t, 10.0/12.0, scores.OCQ(), 1e-9)
}

func TestScoreBoundaryRespect(t *testing.T) {
	ctx := Context{ContextID: "c2", PersonaID: "p1", UseCase: UseCaseBoundary}
	scores := ScoreMessage("No worries, we can take it slow", testPersona, ctx)

	assert.Equal(t, 2, scores.TONE)
	assert.Equal(t, 2, scores.SAFE)
	assert.Equal(t, 2, scores.MOVE)
}

func TestScoreBoundaryPressure(t *testing.T) {
	ctx := Context{ContextID: "c2", PersonaID: "p1", UseCase: UseCaseBoundary}
	scores := ScoreMessage("Come on, don't be shy, just tell me", testPersona, ctx)

	assert.Equal(t, 0, scores.SAFE)
	assert.Equal(t, 0, scores.MOVE)
}

func TestScoreSuggestDateNeedsConcreteSuggestion(t *testing.T) {
	ctx := Context{ContextID: "c3", PersonaID: "p1", UseCase: UseCaseSuggestDate}

	with := ScoreMessage("Want to grab a coffee this weekend?", testPersona, ctx)
	assert.Equal(t, 2, with.MOVE)

	without := ScoreMessage("We should hang out at some point maybe", testPersona, ctx)
	assert.Equal(t, 1, without.MOVE)
}

func TestScoreEmptyAndOverlongAreUnclear(t *testing.T) {
	ctx := Context{ContextID: "c1", PersonaID: "p1", UseCase: UseCaseColdOpen}

	assert.Equal(t, 0, ScoreMessage("   ", testPersona, ctx).CLAR)
	assert.Equal(t, 0, ScoreMessage(strings.Repeat("a", 300), testPersona, ctx).CLAR)
}

func TestScoreRudeToneFloorsTone(t *testing.T) {
	ctx := Context{ContextID: "c1", PersonaID: "p1", UseCase: UseCaseKeepGoing}
	scores := ScoreMessage("whatever, you're boring anyway", testPersona, ctx)

	assert.Equal(t, 0, scores.TONE)
}
