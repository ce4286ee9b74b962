package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"workitem-assistant/internal/common"
	"workitem-assistant/internal/interfaces"
	"workitem-assistant/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"
)

type adoClient struct {
	client *resty.Client
	config *common.AzureDevOpsConfig
	logger arbor.ILogger
}

// NewADOClient creates a WorkItemCreator backed by the Azure DevOps work
// item tracking REST API.
func NewADOClient(config *common.AzureDevOpsConfig, logger arbor.ILogger) interfaces.WorkItemCreator {
	client := resty.New().
		SetTimeout(time.Duration(config.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json-patch+json").
		SetHeader("Accept", "application/json")

	return &adoClient{
		client: client,
		config: config,
		logger: logger,
	}
}

// ProviderTypeName maps the logical type tag to the provider's internal
// type name. In the Scrum process template the backlog item type is named
// "Product Backlog Item"; every other tag passes through verbatim.
func ProviderTypeName(workItemType models.WorkItemType) string {
	name := strings.TrimSpace(string(workItemType))
	if strings.EqualFold(name, "PBI") {
		return "Product Backlog Item"
	}
	return name
}

type patchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// renderAcceptanceCriteria renders non-blank criteria as "- " bullet lines.
// The Acceptance Criteria field renders best as a simple bullet list.
func renderAcceptanceCriteria(criteria []string) string {
	var lines []string
	for _, c := range criteria {
		if strings.TrimSpace(c) != "" {
			lines = append(lines, "- "+c)
		}
	}
	return strings.Join(lines, "\n")
}

// buildPatchDocument assembles the JSON Patch add operations. The
// acceptance criteria path is only included when at least one non-blank
// criterion exists.
func buildPatchDocument(title, description string, acceptanceCriteria []string) []patchOp {
	ops := []patchOp{
		{Op: "add", Path: "/fields/System.Title", Value: title},
		{Op: "add", Path: "/fields/System.Description", Value: common.WrapDescriptionHTML(description)},
	}

	if acText := renderAcceptanceCriteria(acceptanceCriteria); acText != "" {
		ops = append(ops, patchOp{
			Op:    "add",
			Path:  "/fields/Microsoft.VSTS.Common.AcceptanceCriteria",
			Value: acText,
		})
	}

	return ops
}

// CreateWorkItem posts the patch document. Azure DevOps PAT auth is basic
// auth with an empty username, so the Authorization header carries
// base64(":"+credential).
func (c *adoClient) CreateWorkItem(ctx context.Context, credential string, workItemType models.WorkItemType, title, description string, acceptanceCriteria []string) (*models.CreatedWorkItem, error) {
	if c.config.OrgURL == "" {
		return nil, common.NewConfigurationError("ADO_ORG_URL_MISSING", "ADO_ORG_URL is missing")
	}
	if c.config.Project == "" {
		return nil, common.NewConfigurationError("ADO_PROJECT_MISSING", "ADO_PROJECT is missing")
	}
	if strings.TrimSpace(credential) == "" {
		return nil, common.NewConfigurationError("ADO_CREDENTIAL_MISSING", "access credential is missing")
	}

	typeName := ProviderTypeName(workItemType)
	orgURL := strings.TrimRight(c.config.OrgURL, "/")
	url := fmt.Sprintf("%s/%s/_apis/wit/workitems/$%s", orgURL, c.config.Project, typeName)

	var raw map[string]interface{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth("", credential).
		SetQueryParam("api-version", c.config.APIVersion).
		SetBody(buildPatchDocument(title, description, acceptanceCriteria)).
		SetResult(&raw).
		Post(url)

	if err != nil {
		return nil, common.WrapError(err, common.ErrorTypeNetwork, "ADO_REQUEST_FAILED", "work item create request failed")
	}

	if !resp.IsSuccess() {
		return nil, c.providerError(resp)
	}

	v, ok := raw["id"].(float64)
	if !ok {
		return nil, common.NewProviderError("ADO_MISSING_ID", "work item create response has no numeric id").
			WithContext("body", raw)
	}
	id := int(v)

	return &models.CreatedWorkItem{
		ID:           id,
		URL:          fmt.Sprintf("%s/%s/_workitems/edit/%d", orgURL, c.config.Project, id),
		WorkItemType: typeName,
		Raw:          raw,
	}, nil
}

// providerError maps a non-success response to a uniform error carrying
// the status code, reason phrase and error body. JSON bodies are parsed;
// HTML error pages are reduced to their text.
func (c *adoClient) providerError(resp *resty.Response) error {
	body := resp.String()

	var errBody interface{}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		errBody = parsed
	} else if common.LooksLikeHTML(body) {
		errBody = common.ExtractHTMLText(body)
	} else {
		errBody = body
	}

	c.logger.Warn().
		Int("status", resp.StatusCode()).
		Str("reason", resp.Status()).
		Msg("Azure DevOps work item create failed")

	return common.NewProviderError("ADO_CREATE_FAILED", "work item create failed").
		WithDetails(resp.Status()).
		WithContext("status", resp.StatusCode()).
		WithContext("reason", resp.Status()).
		WithContext("body", errBody)
}
