package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"workitem-assistant/internal/common"
	"workitem-assistant/internal/interfaces"
	"workitem-assistant/internal/models"

	"github.com/ternarybob/arbor"
)

const defaultDraftTitle = "New Work Item"

const draftSystemPrompt = `You are an Azure DevOps Work Item Assistant.

Turn even SHORT user notes into a useful first-draft work item.
Do NOT refuse for lack of detail. Instead:
- make reasonable assumptions (list them in assumptions)
- ask missing details (list them in questions)

Return STRICT JSON with this exact shape:
{
  "title": "string",
  "description": "string (markdown)",
  "valueStatement": "string",
  "acceptanceCriteria": ["string", "..."],
  "tasks": ["string", "..."],
  "assumptions": ["string", "..."],
  "dependencies": ["string", "..."],
  "questions": ["string", "..."],
  "confidence": 0.0
}

Rules:
- Title <= 120 characters
- Description should be structured and action-oriented
- Acceptance criteria must be testable
- Tasks must be actionable steps
- assumptions: reasonable guesses when info missing (no sensitive IDs)
- dependencies: only if likely (approvals, maintenance window, infra/permissions)
- questions: what to ask to finalize scope/validation
- confidence between 0.0 and 1.0
- Output JSON only. No extra keys.`

var draftSchema = ContractSchema{
	"title":              {Kind: FieldNonEmptyString, Default: defaultDraftTitle},
	"description":        {Kind: FieldString, Default: ""},
	"valueStatement":     {Kind: FieldString, Default: ""},
	"acceptanceCriteria": {Kind: FieldStringList, Default: []string{}},
	"tasks":              {Kind: FieldStringList, Default: []string{}},
	"assumptions":        {Kind: FieldStringList, Default: []string{}},
	"dependencies":       {Kind: FieldStringList, Default: []string{}},
	"questions":          {Kind: FieldStringList, Default: []string{}},
	"confidence":         {Kind: FieldConfidence, Default: 0.5},
}

// emptyNotesDraft is returned without an oracle call when the notes trim to
// nothing, so the endpoint never burns a completion on vacuous input.
func emptyNotesDraft() *models.Draft {
	return &models.Draft{
		Title:              defaultDraftTitle,
		Description:        "Draft created from empty input. Please add details.",
		ValueStatement:     "Improve clarity and track work.",
		AcceptanceCriteria: []string{"Requester provides requirements and validation steps."},
		Tasks:              []string{"Collect requirements", "Define acceptance criteria"},
		Assumptions:        []string{},
		Dependencies:       []string{},
		Questions:          []string{"What do you want to build/fix?", "What does success look like?"},
		Confidence:         0.2,
	}
}

// DraftGenerator turns free-text notes into a structured work item draft.
type DraftGenerator struct {
	oracle interfaces.Oracle
	logger arbor.ILogger
}

func NewDraftGenerator(oracle interfaces.Oracle, logger arbor.ILogger) *DraftGenerator {
	return &DraftGenerator{
		oracle: oracle,
		logger: logger,
	}
}

// Generate produces a draft from notes. Unlike the gate, a model response
// that stays unparseable after substring extraction is fatal here:
// fabricating an entire draft would be worse than failing the request.
func (d *DraftGenerator) Generate(ctx context.Context, notes string, workItemType models.WorkItemType, extraContext string) (*models.Draft, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return emptyNotesDraft(), nil
	}

	userPrompt := fmt.Sprintf("WorkItemType: %s\n\nUser Notes (may be short):\n%s", workItemType, notes)
	if extraContext = strings.TrimSpace(extraContext); extraContext != "" {
		userPrompt += fmt.Sprintf("\n\nAdditional context (use if relevant):\n%s", extraContext)
	}

	content, err := d.oracle.Complete(ctx, interfaces.CompletionRequest{
		SystemPrompt: draftSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0.2,
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(content)
	if raw == "" {
		return nil, common.NewContractError("ORACLE_EMPTY_RESPONSE", "model returned empty response")
	}

	data, ok := ExtractObject(raw)
	if !ok {
		return nil, common.NewContractError("ORACLE_MALFORMED_JSON", "model returned invalid JSON").
			WithDetails(snippet(raw, 200))
	}

	data = NormalizeContract(data, draftSchema)

	return &models.Draft{
		Title:              contractString(data, "title"),
		Description:        contractString(data, "description"),
		ValueStatement:     contractString(data, "valueStatement"),
		AcceptanceCriteria: contractStringList(data, "acceptanceCriteria"),
		Tasks:              contractStringList(data, "tasks"),
		Assumptions:        contractStringList(data, "assumptions"),
		Dependencies:       contractStringList(data, "dependencies"),
		Questions:          contractStringList(data, "questions"),
		Confidence:         contractFloat(data, "confidence"),
	}, nil
}

// snippet truncates s to at most max bytes, backing up to a rune boundary
// so a multi-byte character is never cut in half.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
