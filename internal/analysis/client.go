package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Invoker performs exactly one request/response round trip against the model.
// It never retries; retry policy belongs to the caller.
type Invoker interface {
	Invoke(ctx context.Context, prompt Prompt) (*Result, error)
}

// GeminiClient invokes the Gemini API with a strict response schema.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Invoke runs the single round trip. The caller's context cancellation
// propagates into the transport; résumé content is never logged here.
func (g *GeminiClient) Invoke(ctx context.Context, prompt Prompt) (*Result, error) {
	parts := []*genai.Part{{Text: prompt.UserText}}
	if prompt.Attachment != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: prompt.Attachment.MIMEType,
				Data:     prompt.Attachment.Data,
			},
		})
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: prompt.System}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    resultSchema(prompt.Closed),
		Temperature:       genai.Ptr[float32](0.7),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: parts}}, config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			detail := fmt.Sprintf("provider returned %d %s: %s", apiErr.Code, apiErr.Status, apiErr.Message)
			return nil, newError(KindUpstream, detail, err)
		}
		return nil, newError(KindTransport, "model request failed", err)
	}

	return DecodeResult(resp.Text())
}

// DecodeResult parses raw model output into a Result, tolerating a response
// wrapped in triple-backtick fencing despite the JSON-only instruction.
func DecodeResult(raw string) (*Result, error) {
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return nil, newError(KindSchema, "empty response from model", nil)
	}
	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, newError(KindSchema, "model response is not valid JSON", err)
	}
	return &result, nil
}

// CleanJSON strips an incidental leading/trailing code fence and whitespace.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	// Remove opening ```json or ``` with optional newline
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	// Remove closing ``` unconditionally
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// resultSchema enumerates the Result shape. Closed-corpus mode requires the
// identifier echo-back; open-ended mode lets the model describe the company
// category itself.
func resultSchema(closed bool) *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

	rec := map[string]*genai.Schema{
		"job_name":       str(),
		"match_score":    {Type: genai.TypeInteger},
		"reason_why_you": str(),
		"risk_why_not":   str(),
	}
	recRequired := []string{"job_name", "match_score", "reason_why_you", "risk_why_not"}
	if closed {
		rec["job_id"] = str()
		recRequired = append(recRequired, "job_id")
	} else {
		rec["company_nature"] = str()
		recRequired = append(recRequired, "company_nature")
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"profile": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"positioning": str(),
					"strengths":   {Type: genai.TypeArray, Items: str()},
					"fatal_flaw":  str(),
				},
				Required: []string{"positioning", "strengths", "fatal_flaw"},
			},
			"job_recommendations": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: rec,
					Required:   recRequired,
				},
			},
			"coaching_strategy": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"resume_fix":          str(),
					"interview_questions": {Type: genai.TypeArray, Items: str()},
				},
				Required: []string{"resume_fix", "interview_questions"},
			},
		},
		Required: []string{"profile", "job_recommendations", "coaching_strategy"},
	}
}
