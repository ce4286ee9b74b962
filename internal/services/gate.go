package services

import (
	"context"
	"fmt"
	"strings"

	"workitem-assistant/internal/interfaces"
	"workitem-assistant/internal/models"

	"github.com/ternarybob/arbor"
)

const gateSystemPrompt = `You are an Azure DevOps work item assistant.

Return ONLY valid JSON with this schema:
{
  "action": "create_draft" | "ask_questions_only",
  "messageToUser": "string",
  "questions": ["string"],
  "assumptions": ["string"],
  "confidence": 0.0
}

Rules:
- Use action="create_draft" for almost all normal inputs, even short ones.
- Only use action="ask_questions_only" when the input is meaningless or impossible to interpret.
- questions: ask for missing details (scope, environment, validation, owners, timing).
- assumptions: if input is short, add reasonable assumptions (do not invent confidential identifiers).
- confidence: 0.0-1.0.
- Output JSON only. No extra keys.`

var gateSchema = ContractSchema{
	"action":        {Kind: FieldString, Default: models.ActionCreateDraft},
	"messageToUser": {Kind: FieldString, Default: "I created a draft work item."},
	"questions":     {Kind: FieldStringList, Default: []string{}},
	"assumptions":   {Kind: FieldStringList, Default: []string{}},
	"confidence":    {Kind: FieldConfidence, Default: 0.6},
}

// gateFallback is the canned result used when the model's output cannot be
// parsed even after substring extraction. The gate always answers; a
// permissive create_draft keeps the pipeline moving.
func gateFallback() map[string]interface{} {
	return map[string]interface{}{
		"action":        models.ActionCreateDraft,
		"messageToUser": "I created a draft work item. A few details would help finalize it.",
		"questions":     []string{"What is the scope, environment, and how will we validate success?"},
		"assumptions":   []string{},
		"confidence":    0.5,
	}
}

// GateEvaluator decides whether notes carry enough signal to draft a work
// item or whether the caller should be asked clarifying questions first.
type GateEvaluator struct {
	oracle interfaces.Oracle
	logger arbor.ILogger
}

func NewGateEvaluator(oracle interfaces.Oracle, logger arbor.ILogger) *GateEvaluator {
	return &GateEvaluator{
		oracle: oracle,
		logger: logger,
	}
}

// Evaluate classifies the notes. Notes shorter than two characters after
// trimming short-circuit to ask_questions_only without touching the model;
// this is a cost and latency guard against near-empty input.
func (g *GateEvaluator) Evaluate(ctx context.Context, notes string, workItemType models.WorkItemType) (*models.GateResult, error) {
	notes = strings.TrimSpace(notes)

	if len(notes) < 2 {
		return &models.GateResult{
			Action:        models.ActionAskQuestionsOnly,
			MessageToUser: "Please provide at least a short phrase describing the work item.",
			Questions:     []string{"What do you want to build/fix/change?"},
			Assumptions:   []string{},
			Confidence:    0.2,
		}, nil
	}

	userPrompt := fmt.Sprintf("Work item type: %s\nNotes:\n%s", workItemType, notes)

	content, err := g.oracle.Complete(ctx, interfaces.CompletionRequest{
		SystemPrompt: gateSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0,
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}

	data, ok := ExtractObject(content)
	if !ok {
		g.logger.Warn().
			Str("work_item_type", string(workItemType)).
			Msg("Gate output was not parseable JSON, using fallback")
		data = gateFallback()
	}

	data = NormalizeContract(data, gateSchema)

	action := contractString(data, "action")
	if action != models.ActionCreateDraft && action != models.ActionAskQuestionsOnly {
		// A third value never survives: the gate is permissive by policy.
		action = models.ActionCreateDraft
	}

	return &models.GateResult{
		Action:        action,
		MessageToUser: contractString(data, "messageToUser"),
		Questions:     contractStringList(data, "questions"),
		Assumptions:   contractStringList(data, "assumptions"),
		Confidence:    contractFloat(data, "confidence"),
	}, nil
}
