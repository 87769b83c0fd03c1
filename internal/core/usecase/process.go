package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/renewintel/ddroom/internal/core/domain"
	"github.com/renewintel/ddroom/internal/core/ports"
)

// ProcessDocumentUseCase runs the async pipeline for one uploaded
// document: extract text, classify, pull PPA terms when applicable, and
// index the text for retrieval.
type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	projects   ports.ProjectRepository
	findings   ports.FindingStore
	issues     ports.IssueStore
	storage    ports.ObjectStorage
	extractor  ports.TextExtractor
	classifier ports.ClassifierService
	terms      ports.TermExtractorService
	indexer    *IndexDocumentUseCase

	useLLMClassification bool
	useLLMExtraction     bool
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	projects ports.ProjectRepository,
	findings ports.FindingStore,
	issues ports.IssueStore,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	classifier ports.ClassifierService,
	terms ports.TermExtractorService,
	indexer *IndexDocumentUseCase,
	useLLMClassification, useLLMExtraction bool,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:                 repo,
		projects:             projects,
		findings:             findings,
		issues:               issues,
		storage:              storage,
		extractor:            extractor,
		classifier:           classifier,
		terms:                terms,
		indexer:              indexer,
		useLLMClassification: useLLMClassification,
		useLLMExtraction:     useLLMExtraction,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return err
	}

	classification, err := uc.classifier.Classify(ctx, text, doc.Filename, uc.useLLMClassification)
	if err != nil {
		return fmt.Errorf("classify document: %w", err)
	}
	if err := uc.repo.SaveClassification(ctx, doc.ID, classification); err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	doc.DocumentType = classification.DocumentType
	doc.Category = classification.Category
	doc.Confidence = classification.Confidence

	if err := uc.recordClassificationFinding(ctx, doc, classification); err != nil {
		return err
	}

	if classification.DocumentType == domain.TypePPA {
		if err := uc.extractPPATerms(ctx, doc, text); err != nil {
			return err
		}
	}

	chunkCount, err := uc.indexer.IndexDocument(ctx, doc, text)
	if err != nil {
		return err
	}
	if err := uc.repo.SetChunkCount(ctx, doc.ID, chunkCount); err != nil {
		return fmt.Errorf("save chunk count: %w", err)
	}

	return nil
}

func (uc *ProcessDocumentUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	data, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open stored document: %w", err)
	}
	defer data.Close()

	text, err := uc.extractor.Extract(ctx, doc, data)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}

func (uc *ProcessDocumentUseCase) recordClassificationFinding(ctx context.Context, doc *domain.Document, cls domain.Classification) error {
	finding := domain.Finding{
		DocumentID:   doc.ID,
		DocumentType: cls.DocumentType,
		Summary: fmt.Sprintf("%s classified as %s (%s, confidence %.3f)",
			doc.Filename, cls.DocumentType, cls.Method, cls.Confidence),
	}
	if err := uc.findings.Save(ctx, doc.ProjectID, finding); err != nil {
		return fmt.Errorf("save finding: %w", err)
	}
	return nil
}

// extractPPATerms stores the extracted terms on the project and turns
// every red flag into a high-severity issue so it reaches the summary.
func (uc *ProcessDocumentUseCase) extractPPATerms(ctx context.Context, doc *domain.Document, text string) error {
	terms, err := uc.terms.Extract(ctx, text, uc.useLLMExtraction)
	if err != nil {
		return fmt.Errorf("extract ppa terms: %w", err)
	}

	if err := uc.projects.SaveTerms(ctx, doc.ProjectID, terms); err != nil {
		return fmt.Errorf("save ppa terms: %w", err)
	}

	finding := domain.Finding{
		DocumentID:   doc.ID,
		DocumentType: domain.TypePPA,
		Summary:      ppaFindingSummary(doc.Filename, terms),
	}
	if err := uc.findings.Save(ctx, doc.ProjectID, finding); err != nil {
		return fmt.Errorf("save ppa finding: %w", err)
	}

	for _, flag := range terms.RedFlags {
		issue := &domain.Issue{
			ID:          uuid.NewString(),
			ProjectID:   doc.ProjectID,
			Severity:    domain.SeverityHigh,
			Description: flag,
		}
		if err := uc.issues.Create(ctx, issue); err != nil {
			return fmt.Errorf("record red flag issue: %w", err)
		}
	}

	return nil
}

func ppaFindingSummary(filename string, terms domain.PPATerms) string {
	summary := fmt.Sprintf("PPA terms extracted from %s", filename)
	if terms.EnergyPrice != "" {
		summary += fmt.Sprintf("; price %s", terms.EnergyPrice)
	}
	if terms.DeliveryTermYears != nil {
		summary += fmt.Sprintf("; term %d years", *terms.DeliveryTermYears)
	}
	if len(terms.RedFlags) > 0 {
		summary += fmt.Sprintf("; %d red flag(s)", len(terms.RedFlags))
	}
	return summary
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
