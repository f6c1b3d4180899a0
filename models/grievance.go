package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category is the complaint category assigned by the classifier
type Category string

const (
	CategoryHostel         Category = "Hostel"
	CategoryAcademics      Category = "Academics"
	CategoryMess           Category = "Mess"
	CategoryInfrastructure Category = "Infrastructure"
	CategorySafety         Category = "Safety"
	CategoryHealth         Category = "Health"
	CategoryOther          Category = "Other"
)

// Urgency is the urgency level assigned by the classifier
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Sentiment is the detected sentiment of a complaint
type Sentiment string

const (
	SentimentNeutral    Sentiment = "Neutral"
	SentimentAngry      Sentiment = "Angry"
	SentimentDistressed Sentiment = "Distressed"
)

// Status represents the workflow state of a grievance
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusViewed    Status = "viewed"
	StatusCleared   Status = "cleared"
)

// ValidCategory reports whether c is one of the enumerated categories
func ValidCategory(c Category) bool {
	switch c {
	case CategoryHostel, CategoryAcademics, CategoryMess, CategoryInfrastructure,
		CategorySafety, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// ValidUrgency reports whether u is one of the enumerated urgency levels
func ValidUrgency(u Urgency) bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

// ValidSentiment reports whether s is one of the enumerated sentiments
func ValidSentiment(s Sentiment) bool {
	return s == SentimentNeutral || s == SentimentAngry || s == SentimentDistressed
}

// ValidStatus reports whether s is one of the enumerated workflow states
func ValidStatus(s Status) bool {
	return s == StatusSubmitted || s == StatusViewed || s == StatusCleared
}

// CanTransitionTo reports whether the workflow allows moving from s to target.
// Allowed edges: submitted->viewed, submitted->cleared, viewed->cleared.
// Nothing leaves cleared; same-state and backward requests are rejected.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusSubmitted:
		return target == StatusViewed || target == StatusCleared
	case StatusViewed:
		return target == StatusCleared
	default:
		return false
	}
}

// Attachment is a single uploaded image attached to a grievance.
// Content holds base64-encoded inline bytes; when the blob store has
// accepted the file, StoragePath replaces Content as the reference.
type Attachment struct {
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	SizeBytes   int64  `json:"sizeBytes"`
	Content     string `json:"content,omitempty"`
	StoragePath string `json:"storagePath,omitempty"`
}

// Attachments is the ordered attachment list stored as JSONB
type Attachments []Attachment

// Value implements driver.Valuer for JSONB
func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(Attachments{})
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB
func (a *Attachments) Scan(value interface{}) error {
	if value == nil {
		*a = Attachments{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		*a = Attachments{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Grievance represents a single student-submitted complaint and its labels
type Grievance struct {
	ID           uuid.UUID   `json:"id"`
	StudentName  string      `json:"studentName"`
	StudentEmail string      `json:"studentEmail"`
	Complaint    string      `json:"complaint"`
	Category     Category    `json:"category"`
	Urgency      Urgency     `json:"urgency"`
	Sentiment    Sentiment   `json:"sentiment"`
	Summary      string      `json:"summary"`
	Status       Status      `json:"status"`
	Attachments  Attachments `json:"attachments,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// AnalysisResult holds the four labels produced by a classifier
type AnalysisResult struct {
	Category  Category  `json:"category"`
	Urgency   Urgency   `json:"urgency"`
	Sentiment Sentiment `json:"sentiment"`
	Summary   string    `json:"summary"`
}

// GrievanceStats is the aggregate view for the dashboard.
// Dimensions with zero occurrences are absent from their map.
type GrievanceStats struct {
	Total       int               `json:"total"`
	ByCategory  map[Category]int  `json:"byCategory"`
	ByUrgency   map[Urgency]int   `json:"byUrgency"`
	BySentiment map[Sentiment]int `json:"bySentiment"`
	ByStatus    map[Status]int    `json:"byStatus"`
}
