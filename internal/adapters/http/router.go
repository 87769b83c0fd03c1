package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/renewintel/ddroom/internal/core/domain"
	"github.com/renewintel/ddroom/internal/core/ports"
	"github.com/renewintel/ddroom/internal/observability/metrics"
)

const serviceName = "api"

// Deps carries everything the HTTP surface needs. All services are
// inbound ports so the router stays decoupled from usecase wiring.
type Deps struct {
	Ingestor   ports.DocumentIngestor
	Documents  ports.DocumentReader
	Remover    ports.DocumentRemover
	Classifier ports.ClassifierService
	Extractor  ports.TermExtractorService
	QA         ports.QAService
	Checklist  ports.ChecklistService
	Summary    ports.SummaryService

	Metrics *metrics.HTTPServerMetrics

	// DefaultProjectID is used when a request does not name a project.
	DefaultProjectID string

	UseLLMClassification bool
	UseLLMExtraction     bool

	// RateLimitPerMinute caps inbound request rate; zero disables.
	RateLimitPerMinute int
	// MaxInFlightRequests bounds concurrent handling; zero disables.
	MaxInFlightRequests int
}

type Router struct {
	deps Deps
}

func NewRouter(deps Deps) *Router {
	if deps.DefaultProjectID == "" {
		deps.DefaultProjectID = "default"
	}
	return &Router{deps: deps}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/api/documents", rt.documentsCollection)
	mux.HandleFunc("/api/documents/", rt.documentByID)
	mux.HandleFunc("/api/classify", rt.classify)
	mux.HandleFunc("/api/extract", rt.extractTerms)
	mux.HandleFunc("/api/qa/ask", rt.qaAsk)
	mux.HandleFunc("/api/qa/compare", rt.qaCompare)
	mux.HandleFunc("/api/checklist", rt.checklistList)
	mux.HandleFunc("/api/checklist/status", rt.checklistStatus)
	mux.HandleFunc("/api/checklist/", rt.checklistUpdate)
	mux.HandleFunc("/api/reports/summary", rt.summaryReport)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.deps.MaxInFlightRequests, 100*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.deps.RateLimitPerMinute, rateBurst(rt.deps.RateLimitPerMinute))
	if rt.deps.Metrics != nil {
		handler = rt.deps.Metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// rateBurst allows short spikes of about a second's worth of traffic.
func rateBurst(perMinute int) int {
	burst := perMinute / 60
	if burst < 1 {
		burst = 1
	}
	return burst
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	projectID := strings.TrimSpace(r.FormValue("project_id"))
	if projectID == "" {
		projectID = rt.deps.DefaultProjectID
	}

	doc, err := rt.deps.Ingestor.Upload(
		r.Context(),
		projectID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		projectID = rt.deps.DefaultProjectID
	}

	docs, err := rt.deps.Documents.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project_id": projectID,
		"documents":  docs,
	})
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := rt.deps.Documents.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		if err := rt.deps.Remover.Remove(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) classify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Text     string `json:"text"`
		Filename string `json:"filename"`
		UseLLM   *bool  `json:"use_llm"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	useLLM := rt.deps.UseLLMClassification
	if req.UseLLM != nil {
		useLLM = *req.UseLLM
	}

	classification, err := rt.deps.Classifier.Classify(r.Context(), req.Text, req.Filename, useLLM)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classification)
}

func (rt *Router) extractTerms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Text   string `json:"text"`
		UseLLM *bool  `json:"use_llm"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	useLLM := rt.deps.UseLLMExtraction
	if req.UseLLM != nil {
		useLLM = *req.UseLLM
	}

	terms, err := rt.deps.Extractor.Extract(r.Context(), req.Text, useLLM)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

func (rt *Router) qaAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Question      string   `json:"question"`
		ProjectID     string   `json:"project_id"`
		DocumentID    string   `json:"document_id"`
		DocumentTypes []string `json:"document_types"`
		MaxSources    int      `json:"max_sources"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	filter := domain.SearchFilter{
		ProjectID:  strings.TrimSpace(req.ProjectID),
		DocumentID: strings.TrimSpace(req.DocumentID),
	}
	if filter.ProjectID == "" {
		filter.ProjectID = rt.deps.DefaultProjectID
	}
	for _, raw := range req.DocumentTypes {
		docType, ok := domain.ParseDocumentType(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("unknown document type %q", raw),
			})
			return
		}
		filter.DocumentTypes = append(filter.DocumentTypes, docType)
	}

	start := time.Now()
	answer, err := rt.deps.QA.Answer(r.Context(), req.Question, filter, req.MaxSources)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.deps.Metrics != nil {
		rt.deps.Metrics.RecordQAObservation(serviceName, "/api/qa/ask", len(answer.Sources), time.Since(start))
	}
	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) qaCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Question    string   `json:"question"`
		DocumentIDs []string `json:"document_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	comparison, err := rt.deps.QA.Compare(r.Context(), req.Question, req.DocumentIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.deps.Metrics != nil {
		rt.deps.Metrics.RecordQAObservation(serviceName, "/api/qa/compare", len(comparison.Sources), time.Since(start))
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (rt *Router) checklistList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	items, err := rt.deps.Checklist.List(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (rt *Router) checklistStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	status, err := rt.deps.Checklist.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (rt *Router) checklistUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPut {
		writeMethodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/checklist/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "checklist item id is required"})
		return
	}

	var update domain.ChecklistUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	item, err := rt.deps.Checklist.Update(r.Context(), id, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (rt *Router) summaryReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		projectID = rt.deps.DefaultProjectID
	}

	summary, err := rt.deps.Summary.Generate(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
