// Package classifier assigns category, urgency, sentiment, and summary
// labels to free-text complaints. The rule-based classifier is the
// authoritative path; the Gemini classifier is an optional first choice
// composed through the Fallback decorator.
package classifier

import (
	"context"
	"strings"

	"grievancedesk-backend/models"
)

// Classifier analyzes a complaint and produces the four labels
type Classifier interface {
	Classify(ctx context.Context, complaint string) (*models.AnalysisResult, error)
}

// summaryMaxLen is the number of leading characters kept in the summary
const summaryMaxLen = 120

// categoryRule maps an ordered keyword group to a category
type categoryRule struct {
	keywords []string
	category models.Category
}

// Rule tables. Groups are checked in order and the first hit wins,
// so the ordering is part of the classification contract.
var (
	categoryRules = []categoryRule{
		{[]string{"hostel", "room", "warden"}, models.CategoryHostel},
		{[]string{"mess", "food", "rice"}, models.CategoryMess},
		{[]string{"exam", "attendance", "class", "teacher", "grades"}, models.CategoryAcademics},
		{[]string{"wifi", "internet", "electricity", "water", "lift", "projector", "fan", "power"}, models.CategoryInfrastructure},
		{[]string{"unsafe", "harassment", "theft", "security", "fight", "threat"}, models.CategorySafety},
		{[]string{"health", "doctor", "medicine", "hospital", "fever", "injury"}, models.CategoryHealth},
	}

	highUrgencyKeywords   = []string{"urgent", "immediately", "emergency", "danger", "serious", "accident"}
	mediumUrgencyKeywords = []string{"soon", "not working", "issue", "problem", "delay"}

	angryKeywords      = []string{"frustrated", "angry", "worst", "very bad", "annoyed"}
	distressedKeywords = []string{"scared", "unsafe", "panic", "distressed", "cry"}
)

// RuleBased is the deterministic keyword classifier. It is pure and
// total: Classify never returns an error for any input.
type RuleBased struct{}

// NewRuleBased creates the rule-based classifier
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Classify evaluates the four rule sets against the complaint text
func (r *RuleBased) Classify(_ context.Context, complaint string) (*models.AnalysisResult, error) {
	lower := strings.ToLower(complaint)

	return &models.AnalysisResult{
		Category:  classifyCategory(lower),
		Urgency:   classifyUrgency(lower),
		Sentiment: classifySentiment(lower),
		Summary:   Summarize(complaint),
	}, nil
}

func classifyCategory(lower string) models.Category {
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			return rule.category
		}
	}
	return models.CategoryOther
}

func classifyUrgency(lower string) models.Urgency {
	if containsAny(lower, highUrgencyKeywords) {
		return models.UrgencyHigh
	}
	if containsAny(lower, mediumUrgencyKeywords) {
		return models.UrgencyMedium
	}
	return models.UrgencyLow
}

func classifySentiment(lower string) models.Sentiment {
	sentiment := models.SentimentNeutral
	if containsAny(lower, angryKeywords) {
		sentiment = models.SentimentAngry
	}
	// Distressed overrides an already-matched Angry result
	if containsAny(lower, distressedKeywords) {
		sentiment = models.SentimentDistressed
	}
	return sentiment
}

// Summarize returns the first 120 characters of the trimmed complaint,
// with "..." appended when the text was truncated
func Summarize(complaint string) string {
	trimmed := strings.TrimSpace(complaint)
	runes := []rune(trimmed)
	if len(runes) <= summaryMaxLen {
		return trimmed
	}
	return string(runes[:summaryMaxLen]) + "..."
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
