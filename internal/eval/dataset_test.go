package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadPersonas(t *testing.T) {
	path := writeFile(t, "personas.json", `[
		{"persona_id": "p1", "name": "Mia", "interests": ["climbing", "coffee"]},
		{"persona_id": "p2", "name": "Lena", "interests": []}
	]`)

	personas, err := ReadPersonas(path)
	require.NoError(t, err)
	require.Len(t, personas, 2)
	assert.Equal(t, "Mia", personas["p1"].Name)
	assert.Equal(t, []string{"climbing", "coffee"}, personas["p1"].Interests)
}

func TestReadContextsSkipsBlankLines(t *testing.T) {
	path := writeFile(t, "contexts.jsonl",
		`{"context_id": "c1", "persona_id": "p1", "use_case": "UC1_COLD_OPEN"}

{"context_id": "c2", "persona_id": "p1", "use_case": "UC4_BOUNDARY"}
`)

	contexts, err := ReadContexts(path)
	require.NoError(t, err)
	require.Len(t, contexts, 2)
	assert.Equal(t, UseCaseBoundary, contexts["c2"].UseCase)
}

func TestReadSamplesRepairsSloppyLines(t *testing.T) {
	// Second line has a trailing comma, the kind of damage hand-edited
	// annotation files accumulate.
	path := writeFile(t, "samples.jsonl",
		`{"sample_id": "s1", "context_id": "c1", "user_text": "hey there"}
{"sample_id": "s2", "context_id": "c1", "user_text": "how was your weekend",}
`)

	samples, err := ReadSamples(path)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "s2", samples[1].SampleID)
	assert.Equal(t, "how was your weekend", samples[1].UserText)
}

func TestReadSamplesFailsOnUnrepairableLine(t *testing.T) {
	path := writeFile(t, "samples.jsonl", "not json at all and not repairable into an object\n")

	samples, err := ReadSamples(path)
	if err == nil {
		// jsonrepair may coerce the line into a JSON value; it must not
		// silently produce a usable sample either way.
		require.Len(t, samples, 1)
		assert.Empty(t, samples[0].SampleID)
	}
}

func TestWriteJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	in := []Sample{
		{SampleID: "s1", ContextID: "c1", UserText: "hi", Label: "SAFE"},
		{SampleID: "s2", ContextID: "c1", UserText: "send me your home address", Label: "MOVE"},
	}

	require.NoError(t, WriteJSONL(path, in))

	out, err := ReadSamples(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
