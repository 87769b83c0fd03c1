package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/renewintel/ddroom/internal/core/domain"
)

type completionCall struct {
	system string
	user   string
}

type completionFake struct {
	reply   string
	replies []string
	err     error
	calls   []completionCall
}

func (f *completionFake) Complete(_ context.Context, system, user string) (string, error) {
	f.calls = append(f.calls, completionCall{system: system, user: user})
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) > 0 {
		reply := f.replies[0]
		f.replies = f.replies[1:]
		return reply, nil
	}
	return f.reply, nil
}

type embedderFake struct {
	err      error
	queryErr error
	batches  [][]string
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i)}
	}
	return vectors, nil
}

func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return []float32{0.1}, nil
}

type upsertCall struct {
	chunks  []domain.Chunk
	vectors [][]float32
}

type searchCall struct {
	limit  int
	filter domain.SearchFilter
}

type vectorStoreFake struct {
	upserts     []upsertCall
	upsertErr   error
	results     []domain.RetrievedChunk
	resultsByID map[string][]domain.RetrievedChunk
	searchErr   error
	searches    []searchCall
	deleted     []string
	deleteErr   error
}

func (f *vectorStoreFake) Upsert(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, upsertCall{chunks: chunks, vectors: vectors})
	return nil
}

func (f *vectorStoreFake) Search(_ context.Context, _ []float32, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error) {
	f.searches = append(f.searches, searchCall{limit: limit, filter: filter})
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.resultsByID != nil {
		return f.resultsByID[filter.DocumentID], nil
	}
	if limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func (f *vectorStoreFake) DeleteByDocument(_ context.Context, documentID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, documentID)
	return nil
}

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type docRepoFake struct {
	doc            *domain.Document
	getErr         error
	created        []*domain.Document
	createErr      error
	statusCalls    []statusCall
	statusErr      error
	failStatusErr  error
	classification domain.Classification
	saveClsErr     error
	chunkCount     int
	deleted        []string
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, doc)
	return nil
}

func (f *docRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *docRepoFake) ListByProject(context.Context, string) ([]domain.Document, error) {
	if f.doc == nil {
		return nil, nil
	}
	return []domain.Document{*f.doc}, nil
}

func (f *docRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *docRepoFake) SaveClassification(_ context.Context, _ string, cls domain.Classification) error {
	if f.saveClsErr != nil {
		return f.saveClsErr
	}
	f.classification = cls
	return nil
}

func (f *docRepoFake) SetChunkCount(_ context.Context, _ string, chunks int) error {
	f.chunkCount = chunks
	return nil
}

func (f *docRepoFake) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type projectRepoFake struct {
	project *domain.Project
	getErr  error
	terms   *domain.PPATerms
}

func (f *projectRepoFake) GetByID(context.Context, string) (*domain.Project, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyProject := *f.project
	return &copyProject, nil
}

func (f *projectRepoFake) SaveTerms(_ context.Context, _ string, terms domain.PPATerms) error {
	f.terms = &terms
	return nil
}

type checklistStoreFake struct {
	items   []domain.ChecklistItem
	seeded  []domain.ChecklistItem
	listErr error
	updated []domain.ChecklistItem
}

func (f *checklistStoreFake) Seed(_ context.Context, items []domain.ChecklistItem) error {
	f.seeded = items
	return nil
}

func (f *checklistStoreFake) List(_ context.Context, category string) ([]domain.ChecklistItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if category == "" {
		return f.items, nil
	}
	var filtered []domain.ChecklistItem
	for _, item := range f.items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (f *checklistStoreFake) GetByID(_ context.Context, id string) (*domain.ChecklistItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			copyItem := f.items[i]
			return &copyItem, nil
		}
	}
	return nil, domain.ErrChecklistNotFound
}

func (f *checklistStoreFake) Update(_ context.Context, item *domain.ChecklistItem) error {
	f.updated = append(f.updated, *item)
	return nil
}

type issueStoreFake struct {
	issues  []domain.Issue
	created []domain.Issue
	listErr error
}

func (f *issueStoreFake) Create(_ context.Context, issue *domain.Issue) error {
	f.created = append(f.created, *issue)
	return nil
}

func (f *issueStoreFake) ListByProject(context.Context, string) ([]domain.Issue, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.issues, nil
}

type findingStoreFake struct {
	findings []domain.Finding
	saveErr  error
}

func (f *findingStoreFake) Save(_ context.Context, _ string, finding domain.Finding) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.findings = append(f.findings, finding)
	return nil
}

func (f *findingStoreFake) ListByProject(context.Context, string) ([]domain.Finding, error) {
	return f.findings, nil
}

type storageFake struct {
	saved   map[string][]byte
	saveErr error
	openErr error
	content string
	deleted []string
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = buf
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewBufferString(f.content)), nil
}

func (f *storageFake) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

type textExtractorFake struct {
	text string
	err  error
}

func (f *textExtractorFake) Extract(context.Context, *domain.Document, io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type classifierSvcFake struct {
	cls domain.Classification
	err error
}

func (f *classifierSvcFake) Classify(context.Context, string, string, bool) (domain.Classification, error) {
	if f.err != nil {
		return domain.Classification{}, f.err
	}
	return f.cls, nil
}

type termsSvcFake struct {
	terms domain.PPATerms
	err   error
}

func (f *termsSvcFake) Extract(context.Context, string, bool) (domain.PPATerms, error) {
	if f.err != nil {
		return domain.PPATerms{}, f.err
	}
	return f.terms, nil
}

type chunkerFake struct {
	chunks []string
}

func (f *chunkerFake) Split(text string) []string {
	if f.chunks != nil {
		return f.chunks
	}
	if text == "" {
		return nil
	}
	return strings.Split(text, " ")
}
