package domain

// SearchFilter narrows vector search by metadata. Zero values mean no
// constraint.
type SearchFilter struct {
	ProjectID     string
	DocumentTypes []DocumentType
	DocumentID    string
}

// Chunk is one token-bounded segment of a document prepared for
// embedding. Index and TotalChunks position it within its document.
type Chunk struct {
	Text         string
	Index        int
	TotalChunks  int
	DocumentID   string
	Filename     string
	ProjectID    string
	DocumentType DocumentType
}

// RetrievedChunk is the read-only projection returned by vector search.
type RetrievedChunk struct {
	DocumentID   string       `json:"document_id"`
	Filename     string       `json:"filename"`
	ProjectID    string       `json:"project_id,omitempty"`
	DocumentType DocumentType `json:"document_type"`
	ChunkIndex   int          `json:"chunk_index"`
	Text         string       `json:"text"`
	Score        float64      `json:"score"`
}

// AnswerSource identifies one document chunk an answer was grounded on.
type AnswerSource struct {
	DocumentID     string       `json:"document_id"`
	Filename       string       `json:"filename"`
	DocumentType   DocumentType `json:"document_type"`
	RelevanceScore float64      `json:"relevance_score"`
}

// Answer is the result of one RAG question. Confidence is a calibration
// heuristic derived from retrieval scores, not a probability.
type Answer struct {
	Answer     string         `json:"answer"`
	Sources    []AnswerSource `json:"sources"`
	Confidence float64        `json:"confidence"`
}

// Comparison is the result of a multi-document comparison: one source
// entry per compared document, not per chunk.
type Comparison struct {
	Answer  string         `json:"answer"`
	Sources []AnswerSource `json:"sources"`
}
