// Package enhancer cross-validates algorithmic fusion results against an LLM.
// The enhancer is strictly advisory: any error or malformed response leaves
// the algorithmic result untouched.
package enhancer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
	"github.com/DianaTao/MindBridge-sub000/internal/errors"
)

const enhancerInstructions = `You are reviewing the output of an automated multimodal emotion fusion pipeline for a wellbeing monitoring service.
Given the latest fused result and recent session history, cross-validate the primary emotion classification.
Respond with the emotion label you believe is correct (one of: happy, sad, angry, fear, surprised, disgusted, neutral, stressed, calm),
a confidence adjustment between -0.2 and 0.2 to apply to the algorithmic confidence, and a one-sentence reasoning.
Only suggest a different emotion when the history clearly contradicts the latest classification.`

// enhancementResponse is the schema-constrained LLM reply.
type enhancementResponse struct {
	ValidatedEmotion     string  `json:"validated_emotion" jsonschema_description:"Emotion label the reviewer believes is correct"`
	ConfidenceAdjustment float64 `json:"confidence_adjustment" jsonschema_description:"Adjustment in [-0.2, 0.2] to the algorithmic confidence"`
	Reasoning            string  `json:"reasoning" jsonschema_description:"One-sentence justification"`
}

var enhancementSchema = generateSchema[enhancementResponse]()

// OpenAI implements domain.Enhancer against the OpenAI Responses API with a
// strict JSON schema response format.
type OpenAI struct {
	client *openai.Client
	model  string
}

var _ domain.Enhancer = (*OpenAI)(nil)

func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{client: &client, model: model}
}

func (e *OpenAI) Enhance(ctx context.Context, result domain.FusionResult, history []domain.FusionResult) (*domain.Enhancement, error) {
	input, err := buildPromptInput(result, history)
	if err != nil {
		return nil, errors.InternalError("failed to build enhancement prompt", err)
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "EmotionEnhancement",
			Schema:      enhancementSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Emotion cross-validation JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           e.model,
		MaxOutputTokens: openai.Int(300),
		Instructions:    openai.String(enhancerInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := e.client.Responses.New(ctx, params)
	if err != nil {
		return nil, errors.ExternalError("enhancement call failed", err)
	}

	var out enhancementResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.OutputText())), &out); err != nil {
		return nil, errors.ExternalError("failed to parse enhancement response", err)
	}
	return validateResponse(out)
}

// validateResponse rejects responses outside the emotion vocabulary or the
// allowed adjustment range before anyone downstream sees them.
func validateResponse(out enhancementResponse) (*domain.Enhancement, error) {
	emotion, err := domain.ParseEmotion(out.ValidatedEmotion)
	if err != nil {
		return nil, errors.ExternalError(
			fmt.Sprintf("enhancement returned unknown emotion %q", out.ValidatedEmotion), err)
	}
	if out.ConfidenceAdjustment < -0.2 || out.ConfidenceAdjustment > 0.2 {
		return nil, errors.ExternalError(
			fmt.Sprintf("enhancement adjustment %.3f outside [-0.2, 0.2]", out.ConfidenceAdjustment), nil)
	}
	return &domain.Enhancement{
		ValidatedEmotion:     emotion,
		ConfidenceAdjustment: out.ConfidenceAdjustment,
		Reasoning:            strings.TrimSpace(out.Reasoning),
	}, nil
}

// promptResult is the compact view of a result handed to the model.
type promptResult struct {
	PrimaryEmotion string  `json:"primary_emotion"`
	Confidence     float64 `json:"confidence"`
	Intensity      float64 `json:"intensity"`
	RiskLevel      string  `json:"risk_level"`
	Trend          string  `json:"trend"`
	Timestamp      string  `json:"timestamp"`
}

func buildPromptInput(result domain.FusionResult, history []domain.FusionResult) (string, error) {
	payload := struct {
		Latest  promptResult   `json:"latest"`
		History []promptResult `json:"history"`
	}{
		Latest:  toPromptResult(result),
		History: make([]promptResult, 0, len(history)),
	}
	for _, h := range history {
		payload.History = append(payload.History, toPromptResult(h))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Cross-validate the latest fused emotion result against the session history:\n")
	b.Write(data)
	return b.String(), nil
}

func toPromptResult(r domain.FusionResult) promptResult {
	return promptResult{
		PrimaryEmotion: string(r.PrimaryEmotion),
		Confidence:     r.Confidence,
		Intensity:      r.Intensity,
		RiskLevel:      string(r.RiskLevel),
		Trend:          string(r.Trend),
		Timestamp:      r.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
