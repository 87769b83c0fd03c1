package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/renewintel/ddroom/internal/core/domain"
)

type stubIngestor struct {
	fn func(ctx context.Context, projectID, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

func (s stubIngestor) Upload(ctx context.Context, projectID, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	return s.fn(ctx, projectID, filename, mimeType, body)
}

type stubReader struct {
	get  func(ctx context.Context, id string) (*domain.Document, error)
	list func(ctx context.Context, projectID string) ([]domain.Document, error)
}

func (s stubReader) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return s.get(ctx, id)
}

func (s stubReader) ListByProject(ctx context.Context, projectID string) ([]domain.Document, error) {
	return s.list(ctx, projectID)
}

type stubRemover struct {
	fn func(ctx context.Context, id string) error
}

func (s stubRemover) Remove(ctx context.Context, id string) error { return s.fn(ctx, id) }

type stubClassifier struct {
	fn func(ctx context.Context, text, filename string, useLLM bool) (domain.Classification, error)
}

func (s stubClassifier) Classify(ctx context.Context, text, filename string, useLLM bool) (domain.Classification, error) {
	return s.fn(ctx, text, filename, useLLM)
}

type stubTermExtractor struct {
	fn func(ctx context.Context, text string, useLLM bool) (domain.PPATerms, error)
}

func (s stubTermExtractor) Extract(ctx context.Context, text string, useLLM bool) (domain.PPATerms, error) {
	return s.fn(ctx, text, useLLM)
}

type stubQA struct {
	answer  func(ctx context.Context, question string, filter domain.SearchFilter, maxSources int) (*domain.Answer, error)
	compare func(ctx context.Context, question string, documentIDs []string) (*domain.Comparison, error)
}

func (s stubQA) Answer(ctx context.Context, question string, filter domain.SearchFilter, maxSources int) (*domain.Answer, error) {
	return s.answer(ctx, question, filter, maxSources)
}

func (s stubQA) Compare(ctx context.Context, question string, documentIDs []string) (*domain.Comparison, error) {
	return s.compare(ctx, question, documentIDs)
}

type stubChecklist struct {
	list   func(ctx context.Context, category string) ([]domain.ChecklistItem, error)
	update func(ctx context.Context, id string, update domain.ChecklistUpdate) (*domain.ChecklistItem, error)
	status func(ctx context.Context) (domain.ChecklistStatus, error)
}

func (s stubChecklist) List(ctx context.Context, category string) ([]domain.ChecklistItem, error) {
	return s.list(ctx, category)
}

func (s stubChecklist) Update(ctx context.Context, id string, update domain.ChecklistUpdate) (*domain.ChecklistItem, error) {
	return s.update(ctx, id, update)
}

func (s stubChecklist) Status(ctx context.Context) (domain.ChecklistStatus, error) {
	return s.status(ctx)
}

type stubSummary struct {
	fn func(ctx context.Context, projectID string) (*domain.ExecutiveSummary, error)
}

func (s stubSummary) Generate(ctx context.Context, projectID string) (*domain.ExecutiveSummary, error) {
	return s.fn(ctx, projectID)
}

func newTestServer(t *testing.T, deps Deps) *httptest.Server {
	t.Helper()
	if deps.DefaultProjectID == "" {
		deps.DefaultProjectID = "solar-alpha"
	}
	server := httptest.NewServer(NewRouter(deps).Handler())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, Deps{})

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestUploadDocument(t *testing.T) {
	var gotProject, gotFilename string
	deps := Deps{
		Ingestor: stubIngestor{fn: func(_ context.Context, projectID, filename, mimeType string, body io.Reader) (*domain.Document, error) {
			gotProject = projectID
			gotFilename = filename
			content, _ := io.ReadAll(body)
			if string(content) != "ppa body" {
				return nil, fmt.Errorf("unexpected body %q", content)
			}
			return &domain.Document{ID: "doc-1", ProjectID: projectID, Filename: filename, Status: domain.StatusUploaded}, nil
		}},
	}
	server := newTestServer(t, deps)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "ppa_signed.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("ppa body")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	resp, err := http.Post(server.URL+"/api/documents", writer.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post upload: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	doc := decodeBody[domain.Document](t, resp)
	if doc.ID != "doc-1" {
		t.Fatalf("doc id = %q", doc.ID)
	}
	if gotFilename != "ppa_signed.pdf" {
		t.Fatalf("filename = %q", gotFilename)
	}
	if gotProject != "solar-alpha" {
		t.Fatalf("project = %q, want default project", gotProject)
	}
}

func TestUploadDocumentMissingFile(t *testing.T) {
	server := newTestServer(t, Deps{})

	resp := postJSON(t, server.URL+"/api/documents", map[string]string{"filename": "x.pdf"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGetDocumentNotFound(t *testing.T) {
	deps := Deps{
		Documents: stubReader{get: func(_ context.Context, id string) (*domain.Document, error) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}},
	}
	server := newTestServer(t, deps)

	resp, err := http.Get(server.URL + "/api/documents/missing")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteDocument(t *testing.T) {
	var removed string
	deps := Deps{
		Remover: stubRemover{fn: func(_ context.Context, id string) error {
			removed = id
			return nil
		}},
	}
	server := newTestServer(t, deps)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/documents/doc-7", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete document: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if removed != "doc-7" {
		t.Fatalf("removed = %q", removed)
	}
}

func TestListDocumentsDefaultsProject(t *testing.T) {
	deps := Deps{
		Documents: stubReader{list: func(_ context.Context, projectID string) ([]domain.Document, error) {
			if projectID != "solar-alpha" {
				return nil, fmt.Errorf("unexpected project %q", projectID)
			}
			return []domain.Document{{ID: "doc-1"}, {ID: "doc-2"}}, nil
		}},
	}
	server := newTestServer(t, deps)

	resp, err := http.Get(server.URL + "/api/documents")
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[struct {
		ProjectID string            `json:"project_id"`
		Documents []domain.Document `json:"documents"`
	}](t, resp)
	if body.ProjectID != "solar-alpha" || len(body.Documents) != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestClassifyUsesConfiguredDefault(t *testing.T) {
	var gotUseLLM bool
	deps := Deps{
		UseLLMClassification: true,
		Classifier: stubClassifier{fn: func(_ context.Context, text, filename string, useLLM bool) (domain.Classification, error) {
			gotUseLLM = useLLM
			return domain.Classification{DocumentType: domain.TypePPA, Confidence: 0.9, Method: domain.MethodKeywords}, nil
		}},
	}
	server := newTestServer(t, deps)

	resp := postJSON(t, server.URL+"/api/classify", map[string]string{
		"text":     "power purchase agreement",
		"filename": "ppa.pdf",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	result := decodeBody[domain.Classification](t, resp)
	if result.DocumentType != domain.TypePPA {
		t.Fatalf("document type = %q", result.DocumentType)
	}
	if !gotUseLLM {
		t.Fatal("expected configured LLM default to apply")
	}
}

func TestClassifyRequestOverridesLLMFlag(t *testing.T) {
	var gotUseLLM bool
	deps := Deps{
		UseLLMClassification: true,
		Classifier: stubClassifier{fn: func(_ context.Context, _, _ string, useLLM bool) (domain.Classification, error) {
			gotUseLLM = useLLM
			return domain.Classification{}, nil
		}},
	}
	server := newTestServer(t, deps)

	resp := postJSON(t, server.URL+"/api/classify", map[string]any{
		"text":    "power purchase agreement",
		"use_llm": false,
	})
	resp.Body.Close()
	if gotUseLLM {
		t.Fatal("expected request flag to override the default")
	}
}

func TestExtractTerms(t *testing.T) {
	price := "$45.50/MWh"
	deps := Deps{
		Extractor: stubTermExtractor{fn: func(_ context.Context, text string, _ bool) (domain.PPATerms, error) {
			if !strings.Contains(text, "energy price") {
				return domain.PPATerms{}, fmt.Errorf("unexpected text %q", text)
			}
			return domain.PPATerms{EnergyPrice: price}, nil
		}},
	}
	server := newTestServer(t, deps)

	resp := postJSON(t, server.URL+"/api/extract", map[string]string{"text": "the energy price shall be $45.50/MWh"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	terms := decodeBody[domain.PPATerms](t, resp)
	if terms.EnergyPrice != price {
		t.Fatalf("energy price = %q", terms.EnergyPrice)
	}
}

func TestQAAskBuildsFilter(t *testing.T) {
	var gotFilter domain.SearchFilter
	var gotMax int
	deps := Deps{
		QA: stubQA{answer: func(_ context.Context, question string, filter domain.SearchFilter, maxSources int) (*domain.Answer, error) {
			gotFilter = filter
			gotMax = maxSources
			return &domain.Answer{Answer: "20 years", Confidence: 0.8, Sources: []domain.AnswerSource{{DocumentID: "doc-1"}}}, nil
		}},
	}
	server := newTestServer(t, deps)

	resp := postJSON(t, server.URL+"/api/qa/ask", map[string]any{
		"question":       "What is the delivery term?",
		"document_types": []string{"ppa", "interconnection_agreement"},
		"max_sources":    3,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	answer := decodeBody[domain.Answer](t, resp)
	if answer.Answer != "20 years" {
		t.Fatalf("answer = %q", answer.Answer)
	}
	if gotFilter.ProjectID != "solar-alpha" {
		t.Fatalf("filter project = %q", gotFilter.ProjectID)
	}
	if len(gotFilter.DocumentTypes) != 2 || gotFilter.DocumentTypes[0] != domain.TypePPA {
		t.Fatalf("filter types = %v", gotFilter.DocumentTypes)
	}
	if gotMax != 3 {
		t.Fatalf("max sources = %d", gotMax)
	}
}

func TestQAAskRejectsUnknownDocumentType(t *testing.T) {
	server := newTestServer(t, Deps{})

	resp := postJSON(t, server.URL+"/api/qa/ask", map[string]any{
		"question":       "anything",
		"document_types": []string{"mystery"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestQAAskRequiresQuestion(t *testing.T) {
	server := newTestServer(t, Deps{})

	resp := postJSON(t, server.URL+"/api/qa/ask", map[string]string{"question": "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestQACompareTemporaryFailure(t *testing.T) {
	deps := Deps{
		QA: stubQA{compare: func(_ context.Context, _ string, _ []string) (*domain.Comparison, error) {
			return nil, domain.WrapError(domain.ErrTemporary, "compare documents", fmt.Errorf("ollama unavailable"))
		}},
	}
	server := newTestServer(t, deps)

	resp := postJSON(t, server.URL+"/api/qa/compare", map[string]any{
		"question":     "compare pricing",
		"document_ids": []string{"doc-1", "doc-2"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestChecklistListPassesCategory(t *testing.T) {
	deps := Deps{
		Checklist: stubChecklist{list: func(_ context.Context, category string) ([]domain.ChecklistItem, error) {
			if category != "Legal" {
				return nil, fmt.Errorf("unexpected category %q", category)
			}
			return []domain.ChecklistItem{{ID: "legal_001"}}, nil
		}},
	}
	server := newTestServer(t, deps)

	resp, err := http.Get(server.URL + "/api/checklist?category=Legal")
	if err != nil {
		t.Fatalf("list checklist: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[struct {
		Items []domain.ChecklistItem `json:"items"`
	}](t, resp)
	if len(body.Items) != 1 || body.Items[0].ID != "legal_001" {
		t.Fatalf("items = %+v", body.Items)
	}
}

func TestChecklistUpdate(t *testing.T) {
	var gotID string
	var gotUpdate domain.ChecklistUpdate
	deps := Deps{
		Checklist: stubChecklist{update: func(_ context.Context, id string, update domain.ChecklistUpdate) (*domain.ChecklistItem, error) {
			gotID = id
			gotUpdate = update
			return &domain.ChecklistItem{ID: id, Status: *update.Status}, nil
		}},
	}
	server := newTestServer(t, deps)

	payload, _ := json.Marshal(map[string]any{"status": "approved", "notes": "reviewed by counsel"})
	req, err := http.NewRequest(http.MethodPatch, server.URL+"/api/checklist/legal_001", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch checklist: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	item := decodeBody[domain.ChecklistItem](t, resp)
	if item.Status != domain.ChecklistApproved {
		t.Fatalf("status = %q", item.Status)
	}
	if gotID != "legal_001" {
		t.Fatalf("id = %q", gotID)
	}
	if gotUpdate.Notes == nil || *gotUpdate.Notes != "reviewed by counsel" {
		t.Fatalf("notes = %v", gotUpdate.Notes)
	}
}

func TestChecklistUpdateNotFound(t *testing.T) {
	deps := Deps{
		Checklist: stubChecklist{update: func(_ context.Context, id string, _ domain.ChecklistUpdate) (*domain.ChecklistItem, error) {
			return nil, domain.WrapError(domain.ErrChecklistNotFound, "update checklist item", fmt.Errorf("id %s", id))
		}},
	}
	server := newTestServer(t, deps)

	req, _ := http.NewRequest(http.MethodPatch, server.URL+"/api/checklist/ghost", strings.NewReader(`{"status":"approved"}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch checklist: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestChecklistStatus(t *testing.T) {
	deps := Deps{
		Checklist: stubChecklist{status: func(_ context.Context) (domain.ChecklistStatus, error) {
			return domain.ChecklistStatus{
				TotalItems:           48,
				CompletedItems:       12,
				CompletionPercentage: 25.0,
				ByCategory:           map[string]domain.CategoryCompletion{"Legal": {Total: 11, Completed: 4}},
			}, nil
		}},
	}
	server := newTestServer(t, deps)

	resp, err := http.Get(server.URL + "/api/checklist/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	status := decodeBody[domain.ChecklistStatus](t, resp)
	if status.TotalItems != 48 || status.CompletionPercentage != 25.0 {
		t.Fatalf("status = %+v", status)
	}
}

func TestSummaryReport(t *testing.T) {
	deps := Deps{
		Summary: stubSummary{fn: func(_ context.Context, projectID string) (*domain.ExecutiveSummary, error) {
			if projectID != "wind-beta" {
				return nil, fmt.Errorf("unexpected project %q", projectID)
			}
			return &domain.ExecutiveSummary{
				Narrative:         "Strong project with minor interconnection risk.",
				OverallRiskRating: domain.RiskMedium,
				Recommendation:    "Proceed with Conditions",
			}, nil
		}},
	}
	server := newTestServer(t, deps)

	resp, err := http.Get(server.URL + "/api/reports/summary?project_id=wind-beta")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	summary := decodeBody[domain.ExecutiveSummary](t, resp)
	if summary.OverallRiskRating != domain.RiskMedium {
		t.Fatalf("risk = %q", summary.OverallRiskRating)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t, Deps{})

	resp := postJSON(t, server.URL+"/api/checklist/status", map[string]string{})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	server := newTestServer(t, Deps{})

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	req.Header.Set(requestIDHeader, "req-abc")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "req-abc" {
		t.Fatalf("request id = %q", got)
	}
}
