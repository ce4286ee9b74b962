package models

import "strings"

// WorkItemType is the logical work item type tag accepted by the API.
type WorkItemType string

const (
	WorkItemTypePBI       WorkItemType = "PBI"
	WorkItemTypeBug       WorkItemType = "Bug"
	WorkItemTypeTask      WorkItemType = "Task"
	WorkItemTypeFeature   WorkItemType = "Feature"
	WorkItemTypeEpic      WorkItemType = "Epic"
	WorkItemTypeUserStory WorkItemType = "User Story"
)

// WorkItemTypes lists every accepted type tag.
var WorkItemTypes = []WorkItemType{
	WorkItemTypePBI,
	WorkItemTypeBug,
	WorkItemTypeTask,
	WorkItemTypeFeature,
	WorkItemTypeEpic,
	WorkItemTypeUserStory,
}

// ParseWorkItemType matches a raw string against the accepted type tags,
// ignoring case and surrounding whitespace. An empty input defaults to PBI.
func ParseWorkItemType(raw string) (WorkItemType, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return WorkItemTypePBI, true
	}
	for _, t := range WorkItemTypes {
		if strings.EqualFold(trimmed, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Gate actions. The gate evaluator never produces any other value; invalid
// oracle output is coerced to create_draft during normalization.
const (
	ActionCreateDraft      = "create_draft"
	ActionAskQuestionsOnly = "ask_questions_only"
)

// GateResult is the outcome of the pre-draft gate check. Produced once per
// request and never mutated afterwards.
type GateResult struct {
	Action        string   `json:"action"`
	MessageToUser string   `json:"messageToUser"`
	Questions     []string `json:"questions"`
	Assumptions   []string `json:"assumptions"`
	Confidence    float64  `json:"confidence"`
}

// Draft is a structured work item proposal generated from free-text notes.
type Draft struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	ValueStatement     string   `json:"valueStatement"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	Tasks              []string `json:"tasks"`
	Assumptions        []string `json:"assumptions"`
	Dependencies       []string `json:"dependencies"`
	Questions          []string `json:"questions"`
	Confidence         float64  `json:"confidence"`
}

// CreatedWorkItem is the result of a successful create call against the
// tracking system. Request-scoped; nothing is persisted.
type CreatedWorkItem struct {
	ID           int                    `json:"id"`
	URL          string                 `json:"url"`
	WorkItemType string                 `json:"workItemType"`
	Raw          map[string]interface{} `json:"raw"`
}
