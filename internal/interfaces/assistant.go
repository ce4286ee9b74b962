package interfaces

import (
	"context"

	"workitem-assistant/internal/models"
)

// CompletionRequest is a single-shot prompt to the language model.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	JSONMode     bool
}

// Oracle is the language-model backend used for gating and drafting. It is
// treated as a black box returning one text completion per request; any
// concrete provider client sits behind this interface.
type Oracle interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// WorkItemCreator posts a drafted work item to the tracking system. The
// credential is the caller-supplied access token, never configuration.
type WorkItemCreator interface {
	CreateWorkItem(ctx context.Context, credential string, workItemType models.WorkItemType, title, description string, acceptanceCriteria []string) (*models.CreatedWorkItem, error)
}

type WebService interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
}
