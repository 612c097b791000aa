package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

func sourcedAnswer() *domain.Answer {
	return &domain.Answer{
		Text: "Cats are mammals.",
		Sources: []domain.ScoredChunk{
			{
				Chunk: domain.Chunk{Text: "Cats are small mammals.", Metadata: domain.Metadata{SourcePath: "data/cats.txt"}},
				Score: 0.91,
			},
			{
				Chunk: domain.Chunk{Text: "Felines", Metadata: domain.Metadata{SourcePath: "data/zoo.pdf", Page: 2}, StartIndex: 800},
				Score: 0.5,
			},
		},
	}
}

func TestAsk_PrintsAnswerUnmodified(t *testing.T) {
	b := newFakeBackend()
	b.ask.answer = &domain.Answer{Text: "  Cats are mammals.  "}

	out, err := execute(t, b, "", "ask", "What are cats?")

	require.NoError(t, err)
	assert.Equal(t, "  Cats are mammals.  \n", out)
	assert.Equal(t, []string{"What are cats?"}, b.ask.questions)
	assert.Equal(t, 0, b.topK)
	assert.Equal(t, 1, b.closed)
}

func TestAsk_Sources(t *testing.T) {
	b := newFakeBackend()
	b.ask.answer = sourcedAnswer()

	out, err := execute(t, b, "", "ask", "cats?", "--sources", "--top-k", "2")

	require.NoError(t, err)
	assert.Equal(t, 2, b.topK)
	assert.Contains(t, out, "[1] data/cats.txt (offset 0, score 0.910)")
	assert.Contains(t, out, "[2] data/zoo.pdf, page 2 (offset 800, score 0.500)")
}

func TestAsk_SourcesEmptyIndex(t *testing.T) {
	b := newFakeBackend()

	out, err := execute(t, b, "", "ask", "cats?", "--sources")

	require.NoError(t, err)
	assert.Contains(t, out, "Sources: none")
}

func TestAsk_JSON(t *testing.T) {
	b := newFakeBackend()
	b.ask.answer = sourcedAnswer()

	out, err := execute(t, b, "", "ask", "cats?", "--json")
	require.NoError(t, err)

	var payload answerJSON
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Cats are mammals.", payload.Answer)
	require.Len(t, payload.Sources, 2)
	assert.Equal(t, 2, payload.Sources[1].Page)
	assert.Equal(t, 800, payload.Sources[1].StartIndex)
}

func TestAsk_MissingCredential(t *testing.T) {
	b := newFakeBackend()
	b.openErr = domain.ErrMissingCredential

	out, err := execute(t, b, "", "ask", "cats?")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Empty(t, out)
	assert.Empty(t, b.ask.questions)
}

func TestAsk_LLMFailure(t *testing.T) {
	b := newFakeBackend()
	b.ask.err = domain.ErrAuthFailed

	out, err := execute(t, b, "", "ask", "cats?")

	assert.ErrorIs(t, err, domain.ErrRemoteService)
	assert.Empty(t, out)
}

func TestAsk_RequiresQuestion(t *testing.T) {
	_, err := execute(t, newFakeBackend(), "", "ask")

	assert.Error(t, err)
}
