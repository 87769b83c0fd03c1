package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/renewintel/ddroom/internal/core/domain"
	"github.com/renewintel/ddroom/internal/core/ports"
)

// classificationKeywords drives the rule-based pass. Slice order matters:
// when two types score the same, the earlier entry wins.
var classificationKeywords = []struct {
	docType  domain.DocumentType
	keywords []string
}{
	{domain.TypePPA, []string{
		"power purchase agreement", "ppa", "offtaker", "renewable energy credit",
		"rec", "energy price", "$/mwh", "delivery point", "contract capacity",
	}},
	{domain.TypeInterconnectionAgreement, []string{
		"interconnection agreement", "interconnection service", "transmission provider",
		"network upgrade", "point of interconnection", "poi", "system impact study",
	}},
	{domain.TypeLandLease, []string{
		"land lease", "lessor", "lessee", "rental payment", "lease term",
		"real property", "premises", "lease agreement",
	}},
	{domain.TypeEnvironmentalPermit, []string{
		"environmental permit", "air quality permit", "water discharge permit",
		"epa", "environmental protection", "permit conditions",
	}},
	{domain.TypeEquipmentWarranty, []string{
		"warranty", "manufacturer", "defects", "warranty period",
		"performance guarantee", "warranty claim",
	}},
	{domain.TypeOMContract, []string{
		"operation and maintenance", "o&m", "maintenance services",
		"availability guarantee", "maintenance schedule",
	}},
	{domain.TypeFinancialModel, []string{
		"financial model", "irr", "internal rate of return", "npv",
		"cash flow", "project finance", "pro forma",
	}},
	{domain.TypeResourceAssessment, []string{
		"resource assessment", "wind resource", "solar resource",
		"capacity factor", "p50", "p90", "energy yield",
	}},
}

const classifySystemPrompt = `You are an expert in renewable energy due diligence documentation.
Classify the following document excerpt into one of these categories:

%s

Respond with ONLY the document type identifier (e.g., 'ppa', 'interconnection_agreement', etc.)
followed by a confidence score (0-1) on the next line.

Format:
document_type
confidence_score`

// ClassifyUseCase implements hybrid document classification: a keyword
// pass arbitrated against an optional model pass by a fixed confidence
// threshold.
type ClassifyUseCase struct {
	llm          ports.CompletionClient
	threshold    float64
	excerptChars int
}

func NewClassifyUseCase(llm ports.CompletionClient, threshold float64, excerptChars int) *ClassifyUseCase {
	return &ClassifyUseCase{
		llm:          llm,
		threshold:    threshold,
		excerptChars: excerptChars,
	}
}

// Classify never fails on model errors: the model pass degrades to
// (unknown, 0) and the keyword result stands.
func (uc *ClassifyUseCase) Classify(ctx context.Context, text, filename string, useLLM bool) (domain.Classification, error) {
	keywordType, keywordConfidence := classifyByKeywords(text, filename)

	docType := keywordType
	confidence := keywordConfidence
	method := domain.MethodKeywords

	if keywordConfidence < uc.threshold && useLLM && uc.llm != nil {
		llmType, llmConfidence := uc.classifyWithLLM(ctx, text, filename)
		if llmConfidence > keywordConfidence {
			docType = llmType
			confidence = llmConfidence
			method = domain.MethodLLM
		}
	}

	category, _ := domain.CategoryFor(docType)

	return domain.Classification{
		DocumentType:   docType,
		Category:       category,
		Confidence:     domain.RoundConfidence(confidence),
		Method:         method,
		RequiresReview: confidence < uc.threshold,
	}, nil
}

// classifyByKeywords scores each configured type by keyword hits:
// filename matches count double. The score is normalized against 1.5x
// the keyword count and capped at 1.
func classifyByKeywords(text, filename string) (domain.DocumentType, float64) {
	textLower := strings.ToLower(text)
	filenameLower := strings.ToLower(filename)
	combined := filenameLower + " " + textLower

	bestType := domain.TypeUnknown
	bestScore := 0.0

	for _, entry := range classificationKeywords {
		score := 0
		matched := 0
		for _, keyword := range entry.keywords {
			if !strings.Contains(combined, keyword) {
				continue
			}
			matched++
			if strings.Contains(filenameLower, keyword) {
				score += 2
			} else {
				score++
			}
		}
		if matched == 0 {
			continue
		}
		normalized := min(float64(score)/(float64(len(entry.keywords))*1.5), 1.0)
		if normalized > bestScore {
			bestType = entry.docType
			bestScore = normalized
		}
	}

	return bestType, bestScore
}

// classifyWithLLM asks the model for a two-line "type\nconfidence"
// verdict. Any transport or parse failure degrades to (unknown, 0).
func (uc *ClassifyUseCase) classifyWithLLM(ctx context.Context, text, title string) (domain.DocumentType, float64) {
	excerpt := text
	if len(excerpt) > uc.excerptChars {
		excerpt = excerpt[:uc.excerptChars]
	}

	system := fmt.Sprintf(classifySystemPrompt, taxonomyPromptList())
	user := fmt.Sprintf("Document Title: %s\n\nDocument Excerpt:\n%s", title, excerpt)

	reply, err := uc.llm.Complete(ctx, system, user)
	if err != nil {
		return domain.TypeUnknown, 0
	}

	lines := strings.Split(strings.TrimSpace(reply), "\n")
	if len(lines) < 2 {
		return domain.TypeUnknown, 0
	}

	docType, ok := domain.ParseDocumentType(strings.ToLower(strings.TrimSpace(lines[0])))
	if !ok {
		return domain.TypeUnknown, 0
	}
	confidence, err := strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
	if err != nil {
		return domain.TypeUnknown, 0
	}

	return docType, confidence
}

// taxonomyPromptList renders "- id: Readable Name" lines for every
// known type except unknown.
func taxonomyPromptList() string {
	var b strings.Builder
	for _, dt := range domain.AllDocumentTypes {
		if dt == domain.TypeUnknown {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", dt, readableTypeName(dt))
	}
	return strings.TrimRight(b.String(), "\n")
}

func readableTypeName(dt domain.DocumentType) string {
	words := strings.Split(string(dt), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
