package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"workitem-assistant/internal/common"
	"workitem-assistant/internal/models"
	"workitem-assistant/internal/services"

	"github.com/ternarybob/arbor"
)

// APIHandlers contains all API endpoint handlers
type APIHandlers struct {
	config    *common.Config
	assistant *services.WorkItemAssistant
	drafts    *services.DraftGenerator
	logger    arbor.ILogger
	startTime time.Time
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Build       string    `json:"build"`
	Uptime      float64   `json:"uptime_seconds"`
}

// LLMHealthResponse represents the oracle smoke test response
type LLMHealthResponse struct {
	Status      string  `json:"status"`
	SampleTitle string  `json:"sample_title"`
	Confidence  float64 `json:"confidence"`
}

// VersionResponse represents version information
type VersionResponse struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// ConfigResponse is the redacted configuration view. Secrets are never
// echoed.
type ConfigResponse struct {
	Server struct {
		Name        string `json:"name"`
		Environment string `json:"environment"`
		Port        int    `json:"port"`
	} `json:"server"`
	OpenAI struct {
		Endpoint   string `json:"endpoint"`
		Deployment string `json:"deployment"`
		APIVersion string `json:"api_version"`
		KeySet     bool   `json:"api_key_configured"`
	} `json:"openai"`
	AzureDevOps struct {
		OrgURL     string `json:"org_url"`
		Project    string `json:"project"`
		APIVersion string `json:"api_version"`
	} `json:"azuredevops"`
}

// DraftRequest is the request body shared by the draft and create endpoints
type DraftRequest struct {
	Notes        string `json:"notes"`
	WorkItemType string `json:"workItemType"`
	ExtraContext string `json:"extraContext,omitempty"`
}

// DraftWithGateResponse pairs the gate result with the optional draft
type DraftWithGateResponse struct {
	Gate  *models.GateResult `json:"gate"`
	Draft *models.Draft      `json:"draft,omitempty"`
}

// CreateResponse represents the draft-and-create result
type CreateResponse struct {
	Created     bool               `json:"created"`
	WorkItemID  int                `json:"workItemId,omitempty"`
	WorkItemURL string             `json:"workItemUrl,omitempty"`
	Draft       *models.Draft      `json:"draft,omitempty"`
	Gate        *models.GateResult `json:"gate"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(config *common.Config, assistant *services.WorkItemAssistant, drafts *services.DraftGenerator, logger arbor.ILogger) *APIHandlers {
	return &APIHandlers{
		config:    config,
		assistant: assistant,
		drafts:    drafts,
		logger:    logger,
		startTime: time.Now(),
	}
}

// HealthHandler returns service liveness
func (h *APIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Environment: h.config.Server.Environment,
		Timestamp:   time.Now(),
		Version:     common.GetVersion(),
		Build:       common.GetBuild(),
		Uptime:      time.Since(h.startTime).Seconds(),
	})
}

// LLMHealthHandler runs an oracle round trip on a fixed sample input
func (h *APIHandlers) LLMHealthHandler(w http.ResponseWriter, r *http.Request) {
	draft, err := h.drafts.Generate(r.Context(), "Add logging improvements", models.WorkItemTypeTask, "")
	if err != nil {
		h.logger.Error().Err(err).Msg("LLM health check failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, LLMHealthResponse{
		Status:      "ok",
		SampleTitle: draft.Title,
		Confidence:  draft.Confidence,
	})
}

// VersionHandler returns build information
func (h *APIHandlers) VersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: common.GetVersion(),
		Build:   common.GetBuild(),
		Commit:  common.GetGitCommit(),
	})
}

// ConfigHandler returns the redacted configuration
func (h *APIHandlers) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	var resp ConfigResponse
	resp.Server.Name = h.config.Server.Name
	resp.Server.Environment = h.config.Server.Environment
	resp.Server.Port = h.config.Server.Port
	resp.OpenAI.Endpoint = h.config.OpenAI.Endpoint
	resp.OpenAI.Deployment = h.config.OpenAI.Deployment
	resp.OpenAI.APIVersion = h.config.OpenAI.APIVersion
	resp.OpenAI.KeySet = h.config.OpenAI.APIKey != ""
	resp.AzureDevOps.OrgURL = h.config.AzureDevOps.OrgURL
	resp.AzureDevOps.Project = h.config.AzureDevOps.Project
	resp.AzureDevOps.APIVersion = h.config.AzureDevOps.APIVersion

	writeJSON(w, http.StatusOK, resp)
}

// DraftHandler runs the gate and draft flow
func (h *APIHandlers) DraftHandler(w http.ResponseWriter, r *http.Request) {
	req, workItemType, ok := h.decodeDraftRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.assistant.Draft(r.Context(), req.Notes, workItemType, req.ExtraContext)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DraftWithGateResponse{
		Gate:  outcome.Gate,
		Draft: outcome.Draft,
	})
}

// CreateHandler runs the gate, draft and create flow. The bearer credential
// is extracted and validated before any core logic runs.
func (h *APIHandlers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	credential, err := bearerToken(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	req, workItemType, ok := h.decodeDraftRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.assistant.Create(r.Context(), req.Notes, workItemType, req.ExtraContext, credential)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := CreateResponse{
		Created: outcome.Created,
		Draft:   outcome.Draft,
		Gate:    outcome.Gate,
	}
	if outcome.Item != nil {
		resp.WorkItemID = outcome.Item.ID
		resp.WorkItemURL = outcome.Item.URL
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) decodeDraftRequest(w http.ResponseWriter, r *http.Request) (*DraftRequest, models.WorkItemType, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return nil, "", false
	}

	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, common.NewValidationError("INVALID_BODY", "request body is not valid JSON"))
		return nil, "", false
	}

	if strings.TrimSpace(req.Notes) == "" {
		h.writeError(w, common.NewValidationError("NOTES_REQUIRED", "notes must not be empty"))
		return nil, "", false
	}

	workItemType, ok := models.ParseWorkItemType(req.WorkItemType)
	if !ok {
		h.writeError(w, common.NewValidationError("INVALID_WORK_ITEM_TYPE", "workItemType must be one of PBI, Bug, Task, Feature, Epic, User Story"))
		return nil, "", false
	}

	return &req, workItemType, true
}

// bearerToken extracts the credential from an "Authorization: Bearer" header
func bearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", common.NewAuthError("MISSING_BEARER_TOKEN", "missing Bearer token")
	}

	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if token == "" {
		return "", common.NewAuthError("MISSING_BEARER_TOKEN", "missing Bearer token")
	}
	return token, nil
}

func (h *APIHandlers) writeError(w http.ResponseWriter, err error) {
	ae := common.AsAssistantError(err)

	status := http.StatusInternalServerError
	switch ae.Type {
	case common.ErrorTypeValidation:
		status = http.StatusBadRequest
	case common.ErrorTypeAuth:
		status = http.StatusUnauthorized
	case common.ErrorTypeOracle, common.ErrorTypeContract, common.ErrorTypeProvider, common.ErrorTypeNetwork:
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(ae).Str("code", ae.Code).Msg("Request failed")
	} else {
		h.logger.Warn().Str("code", ae.Code).Msg(ae.Message)
	}

	writeJSON(w, status, ErrorResponse{Error: ae.Message, Code: ae.Code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
