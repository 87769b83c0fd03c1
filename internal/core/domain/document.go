package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document is the metadata record for an uploaded deal document.
type Document struct {
	ID           string           `json:"id"`
	ProjectID    string           `json:"project_id"`
	Filename     string           `json:"filename"`
	MimeType     string           `json:"mime_type"`
	StoragePath  string           `json:"storage_path"`
	DocumentType DocumentType     `json:"document_type,omitempty"`
	Category     DocumentCategory `json:"category,omitempty"`
	Confidence   float64          `json:"confidence,omitempty"`
	ChunkCount   int              `json:"chunk_count,omitempty"`
	Status       DocumentStatus   `json:"status"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ClassificationMethod records which backend produced a classification.
type ClassificationMethod string

const (
	MethodKeywords ClassificationMethod = "keywords"
	MethodLLM      ClassificationMethod = "llm"
)

// Classification is the result of one classification call. Category is
// empty when the winning type has no taxonomy mapping.
type Classification struct {
	DocumentType   DocumentType         `json:"document_type"`
	Category       DocumentCategory     `json:"category,omitempty"`
	Confidence     float64              `json:"confidence"`
	Method         ClassificationMethod `json:"classification_method"`
	RequiresReview bool                 `json:"requires_review"`
}

// Project carries the project attributes the summary generator formats
// into its narrative prompt and revenue metrics.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	TechnologyType string    `json:"technology_type,omitempty"`
	CapacityMW     float64   `json:"capacity_mw,omitempty"`
	Location       string    `json:"location,omitempty"`
	COD            string    `json:"cod,omitempty"`
	PPATerms       *PPATerms `json:"ppa_terms,omitempty"`
}
