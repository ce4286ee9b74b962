package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"workitem-assistant/internal/common"
	"workitem-assistant/internal/interfaces"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"
)

type azureOpenAIOracle struct {
	client *resty.Client
	config *common.OpenAIConfig
	logger arbor.ILogger
}

// NewAzureOpenAIOracle creates an Oracle backed by an Azure OpenAI
// chat-completions deployment. Required configuration is validated on each
// call, before any network traffic, so misconfiguration fails fast without
// preventing service startup.
func NewAzureOpenAIOracle(config *common.OpenAIConfig, logger arbor.ILogger) interfaces.Oracle {
	client := resty.New().
		SetTimeout(time.Duration(config.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &azureOpenAIOracle{
		client: client,
		config: config,
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *azureOpenAIOracle) validateConfig() error {
	if o.config.Endpoint == "" {
		return common.NewConfigurationError("OPENAI_ENDPOINT_MISSING", "AZURE_OPENAI_ENDPOINT is missing")
	}
	if o.config.Deployment == "" {
		return common.NewConfigurationError("OPENAI_DEPLOYMENT_MISSING", "AZURE_OPENAI_DEPLOYMENT is missing")
	}
	if o.config.APIVersion == "" {
		return common.NewConfigurationError("OPENAI_API_VERSION_MISSING", "AZURE_OPENAI_API_VERSION is missing")
	}
	if o.config.APIKey == "" {
		return common.NewConfigurationError("OPENAI_API_KEY_MISSING", "AZURE_OPENAI_API_KEY is missing")
	}
	return nil
}

// Complete sends one chat completion request and returns the raw text of
// the first choice. No retries: a transport failure surfaces immediately.
func (o *azureOpenAIOracle) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	if err := o.validateConfig(); err != nil {
		return "", err
	}

	body := chatCompletionRequest{
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	url := strings.TrimRight(o.config.Endpoint, "/") + "/openai/deployments/" + o.config.Deployment + "/chat/completions"

	var result chatCompletionResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParam("api-version", o.config.APIVersion).
		SetHeader("api-key", o.config.APIKey).
		SetBody(body).
		SetResult(&result).
		Post(url)

	if err != nil {
		return "", common.WrapError(err, common.ErrorTypeOracle, "ORACLE_REQUEST_FAILED", "language model request failed")
	}

	if resp.StatusCode() != http.StatusOK {
		o.logger.Warn().
			Int("status", resp.StatusCode()).
			Str("deployment", o.config.Deployment).
			Msg("Language model returned non-OK status")
		return "", common.NewOracleError("ORACLE_BAD_STATUS", "language model request failed").
			WithDetails(resp.Status()).
			WithContext("status", resp.StatusCode()).
			WithContext("body", resp.String())
	}

	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
