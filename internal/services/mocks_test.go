package services

import (
	"context"

	"workitem-assistant/internal/interfaces"
	"workitem-assistant/internal/models"
)

// mockOracle records every completion request and returns canned responses.
type mockOracle struct {
	calls     int
	responses []string
	response  string
	err       error
	requests  []interfaces.CompletionRequest
}

func (m *mockOracle) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	m.calls++
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) > 0 {
		resp := m.responses[0]
		m.responses = m.responses[1:]
		return resp, nil
	}
	return m.response, nil
}

func (m *mockOracle) lastRequest() interfaces.CompletionRequest {
	if len(m.requests) == 0 {
		return interfaces.CompletionRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// mockCreator records the create call without touching any network.
type mockCreator struct {
	calls           int
	lastCredential  string
	lastType        models.WorkItemType
	lastTitle       string
	lastDescription string
	lastCriteria    []string
	item            *models.CreatedWorkItem
	err             error
}

func (m *mockCreator) CreateWorkItem(ctx context.Context, credential string, workItemType models.WorkItemType, title, description string, acceptanceCriteria []string) (*models.CreatedWorkItem, error) {
	m.calls++
	m.lastCredential = credential
	m.lastType = workItemType
	m.lastTitle = title
	m.lastDescription = description
	m.lastCriteria = acceptanceCriteria
	if m.err != nil {
		return nil, m.err
	}
	if m.item != nil {
		return m.item, nil
	}
	return &models.CreatedWorkItem{
		ID:           42,
		URL:          "https://dev.azure.com/org/project/_workitems/edit/42",
		WorkItemType: ProviderTypeName(workItemType),
	}, nil
}
