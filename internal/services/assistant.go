package services

import (
	"context"
	"fmt"
	"strings"

	"workitem-assistant/internal/interfaces"
	"workitem-assistant/internal/models"

	"github.com/ternarybob/arbor"
)

// WorkItemAssistant orchestrates one request: gate check, draft generation
// with the gate's assumptions folded into the prompt context, and the
// optional create call against the tracking system. The two oracle calls
// are strictly sequential - the draft prompt depends on the gate output.
type WorkItemAssistant struct {
	gate    *GateEvaluator
	drafts  *DraftGenerator
	creator interfaces.WorkItemCreator
	logger  arbor.ILogger
}

func NewWorkItemAssistant(gate *GateEvaluator, drafts *DraftGenerator, creator interfaces.WorkItemCreator, logger arbor.ILogger) *WorkItemAssistant {
	return &WorkItemAssistant{
		gate:    gate,
		drafts:  drafts,
		creator: creator,
		logger:  logger,
	}
}

// DraftOutcome pairs the gate result with the draft, which is nil when the
// gate decided to ask questions instead.
type DraftOutcome struct {
	Gate  *models.GateResult
	Draft *models.Draft
}

// CreateOutcome is the result of the draft-and-create flow.
type CreateOutcome struct {
	Gate    *models.GateResult
	Draft   *models.Draft
	Created bool
	Item    *models.CreatedWorkItem
}

// Draft runs the gate and, unless it blocks, generates a draft.
func (a *WorkItemAssistant) Draft(ctx context.Context, notes string, workItemType models.WorkItemType, extraContext string) (*DraftOutcome, error) {
	gate, err := a.gate.Evaluate(ctx, notes, workItemType)
	if err != nil {
		return nil, err
	}

	if gate.Action == models.ActionAskQuestionsOnly {
		a.logger.Info().
			Str("work_item_type", string(workItemType)).
			Str("confidence", fmt.Sprintf("%.2f", gate.Confidence)).
			Msg("Gate blocked drafting, asking questions instead")
		return &DraftOutcome{Gate: gate}, nil
	}

	draft, err := a.drafts.Generate(ctx, notes, workItemType, mergeContext(extraContext, gate.Assumptions))
	if err != nil {
		return nil, err
	}

	// Gate questions are a fallback only - draft questions win when present.
	if len(draft.Questions) == 0 && len(gate.Questions) > 0 {
		draft.Questions = gate.Questions
	}

	return &DraftOutcome{Gate: gate, Draft: draft}, nil
}

// Create runs the draft flow and, when a draft was produced, posts it to
// the tracking system using the caller-supplied credential.
func (a *WorkItemAssistant) Create(ctx context.Context, notes string, workItemType models.WorkItemType, extraContext, credential string) (*CreateOutcome, error) {
	outcome, err := a.Draft(ctx, notes, workItemType, extraContext)
	if err != nil {
		return nil, err
	}

	if outcome.Draft == nil {
		return &CreateOutcome{Gate: outcome.Gate, Created: false}, nil
	}

	item, err := a.creator.CreateWorkItem(ctx, credential, workItemType,
		outcome.Draft.Title,
		composeDescription(outcome.Draft),
		outcome.Draft.AcceptanceCriteria)
	if err != nil {
		return nil, err
	}

	a.logger.Info().
		Int("work_item_id", item.ID).
		Str("work_item_type", item.WorkItemType).
		Msg("Work item created")

	return &CreateOutcome{
		Gate:    outcome.Gate,
		Draft:   outcome.Draft,
		Created: true,
		Item:    item,
	}, nil
}

// mergeContext appends the gate's assumptions to the caller's extra context
// as a bulleted block, so the draft prompt builds on what the gate already
// decided to assume.
func mergeContext(extraContext string, assumptions []string) string {
	if len(assumptions) == 0 {
		return extraContext
	}
	return extraContext + "\n\nAssumptions:\n- " + strings.Join(assumptions, "\n- ")
}

// composeDescription builds the description text sent to the tracking
// system from the draft body and its value statement.
func composeDescription(draft *models.Draft) string {
	description := strings.TrimSpace(draft.Description)
	if value := strings.TrimSpace(draft.ValueStatement); value != "" {
		if description != "" {
			description += "\n\n"
		}
		description += "Value: " + value
	}
	return description
}
