package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"grievancedesk-backend/models"

	"github.com/google/generative-ai-go/genai"
)

// DefaultGeminiModel is the model used when none is configured
const DefaultGeminiModel = "gemini-2.0-flash"

const analysisPrompt = `You are an AI assistant for a university grievance redressal system.
Given a student complaint:
1. Categorize the issue into Hostel, Academics, Mess, Infrastructure, Safety, Health, or Other.
2. Determine urgency: Low, Medium, or High.
3. Detect sentiment: Neutral, Angry, or Distressed.
4. Summarize the issue in 2-3 concise lines for administrators.
Return ONLY valid JSON in the format:
{
  "category": "string",
  "urgency": "string",
  "sentiment": "string",
  "summary": "string"
}`

var (
	ErrEmptyResponse   = errors.New("gemini returned no candidates")
	ErrInvalidResponse = errors.New("gemini response missing required fields")
)

// Gemini classifies complaints through the hosted Gemini model.
// Any transport error, malformed payload, or out-of-enum label is
// returned as an error so the caller can fall back.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a Gemini-backed classifier
func NewGemini(client *genai.Client, modelName string) *Gemini {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &Gemini{client: client, modelName: modelName}
}

// Classify sends the complaint with the fixed instruction prompt and
// parses the JSON object from the response
func (g *Gemini) Classify(ctx context.Context, complaint string) (*models.AnalysisResult, error) {
	if g.client == nil {
		return nil, errors.New("gemini client not set")
	}

	model := g.client.GenerativeModel(g.modelName)
	model.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf("%s\n\nStudent Complaint: %q", analysisPrompt, complaint)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	return parseAnalysis(text)
}

// responseText concatenates the text parts of the first candidates
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var builder strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			log.Printf("Warning: Gemini candidate %d finished with reason: %s", i, candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}

	result := builder.String()
	if result == "" {
		return "", ErrEmptyResponse
	}
	return result, nil
}

// parseAnalysis extracts the JSON object from the response text and
// validates every field against its enumeration
func parseAnalysis(text string) (*models.AnalysisResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("could not extract JSON from gemini response")
	}

	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if !models.ValidCategory(analysis.Category) ||
		!models.ValidUrgency(analysis.Urgency) ||
		!models.ValidSentiment(analysis.Sentiment) ||
		analysis.Summary == "" {
		return nil, ErrInvalidResponse
	}

	return &analysis, nil
}
