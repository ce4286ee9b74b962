package services

import (
	"context"
	"errors"
	"testing"

	"workitem-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestGateShortCircuitsNearEmptyNotes(t *testing.T) {
	tests := []struct {
		name  string
		notes string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t"},
		{"single char", "x"},
		{"single char padded", "  x  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &mockOracle{}
			gate := NewGateEvaluator(oracle, arbor.NewLogger())

			result, err := gate.Evaluate(context.Background(), tt.notes, models.WorkItemTypePBI)
			require.NoError(t, err)

			assert.Equal(t, models.ActionAskQuestionsOnly, result.Action)
			assert.Equal(t, 0.2, result.Confidence)
			assert.Equal(t, []string{"What do you want to build/fix/change?"}, result.Questions)
			assert.Empty(t, result.Assumptions)
			assert.Equal(t, 0, oracle.calls, "oracle must not be called for near-empty notes")
		})
	}
}

func TestGateEvaluatesNormalNotes(t *testing.T) {
	oracle := &mockOracle{response: `{
		"action": "create_draft",
		"messageToUser": "Drafting now.",
		"questions": ["Which environment?"],
		"assumptions": ["Production web app"],
		"confidence": 0.85
	}`}
	gate := NewGateEvaluator(oracle, arbor.NewLogger())

	result, err := gate.Evaluate(context.Background(), "fix the login bug", models.WorkItemTypeBug)
	require.NoError(t, err)

	assert.Equal(t, 1, oracle.calls)
	assert.Equal(t, models.ActionCreateDraft, result.Action)
	assert.Equal(t, "Drafting now.", result.MessageToUser)
	assert.Equal(t, []string{"Which environment?"}, result.Questions)
	assert.Equal(t, []string{"Production web app"}, result.Assumptions)
	assert.Equal(t, 0.85, result.Confidence)

	req := oracle.lastRequest()
	assert.Equal(t, 0.0, req.Temperature, "gate runs at temperature zero")
	assert.True(t, req.JSONMode)
	assert.Contains(t, req.UserPrompt, "fix the login bug")
	assert.Contains(t, req.UserPrompt, "Bug")
}

func TestGateFallsBackOnUnparseableOutput(t *testing.T) {
	oracle := &mockOracle{response: "I am sorry, I cannot classify this."}
	gate := NewGateEvaluator(oracle, arbor.NewLogger())

	result, err := gate.Evaluate(context.Background(), "upgrade the database", models.WorkItemTypeTask)
	require.NoError(t, err)

	assert.Equal(t, models.ActionCreateDraft, result.Action)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Len(t, result.Questions, 1)
	assert.Empty(t, result.Assumptions)
}

func TestGateCoercesInvalidAction(t *testing.T) {
	oracle := &mockOracle{response: `{"action": "maybe_later", "confidence": 0.4}`}
	gate := NewGateEvaluator(oracle, arbor.NewLogger())

	result, err := gate.Evaluate(context.Background(), "add caching", models.WorkItemTypePBI)
	require.NoError(t, err)

	assert.Equal(t, models.ActionCreateDraft, result.Action)
}

func TestGateClampsConfidence(t *testing.T) {
	oracle := &mockOracle{response: `{"action": "create_draft", "confidence": 2.5}`}
	gate := NewGateEvaluator(oracle, arbor.NewLogger())

	result, err := gate.Evaluate(context.Background(), "add caching", models.WorkItemTypePBI)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Confidence)
}

func TestGatePropagatesTransportErrors(t *testing.T) {
	oracle := &mockOracle{err: errors.New("connection refused")}
	gate := NewGateEvaluator(oracle, arbor.NewLogger())

	_, err := gate.Evaluate(context.Background(), "add caching", models.WorkItemTypePBI)
	require.Error(t, err)
}

func TestGateCoercesNonListQuestions(t *testing.T) {
	oracle := &mockOracle{response: `{"action": "create_draft", "questions": "what scope?"}`}
	gate := NewGateEvaluator(oracle, arbor.NewLogger())

	result, err := gate.Evaluate(context.Background(), "add caching", models.WorkItemTypePBI)
	require.NoError(t, err)

	assert.Equal(t, []string{"what scope?"}, result.Questions)
}
