package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/renewintel/ddroom/internal/core/domain"
	"github.com/renewintel/ddroom/internal/core/ports"
)

const answerSystemPrompt = `You are an expert renewable energy transaction advisor assisting with due diligence.
Answer questions based ONLY on the provided context from the data room documents.

Guidelines:
1. Provide accurate, specific answers citing document sources
2. If information is not in the context, clearly state that
3. Highlight any risks, red flags, or important considerations
4. Use technical terminology appropriately
5. Provide quantitative data when available
6. Cross-reference information across documents when relevant

Context from documents:
%s`

const compareSystemPrompt = `You are comparing terms across multiple renewable energy transaction documents.
Provide a side-by-side comparison highlighting:
1. Similarities in terms
2. Differences and discrepancies
3. Any conflicts or inconsistencies
4. Which document has more favorable terms

Documents to compare:
%s`

const noInformationAnswer = "I don't have enough information in the data room to answer this question. " +
	"Please ensure the relevant documents have been uploaded and indexed."

const noComparisonAnswer = "Unable to retrieve information from the specified documents for comparison."

// AnswerUseCase is the RAG question-answering engine. It never returns
// an error to callers: retrieval failures and empty retrievals degrade
// to a fixed no-information answer, and model failures surface as an
// error-text answer with zero confidence.
type AnswerUseCase struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
	llm      ports.CompletionClient
}

func NewAnswerUseCase(
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	llm ports.CompletionClient,
) *AnswerUseCase {
	return &AnswerUseCase{
		embedder: embedder,
		vectorDB: vectorDB,
		llm:      llm,
	}
}

func (uc *AnswerUseCase) Answer(ctx context.Context, question string, filter domain.SearchFilter, maxSources int) (*domain.Answer, error) {
	if maxSources <= 0 {
		maxSources = 5
	}

	// Over-fetch so weak matches can be cut before prompting.
	chunks := uc.retrieve(ctx, question, maxSources*2, filter)
	if len(chunks) == 0 {
		return &domain.Answer{
			Answer:     noInformationAnswer,
			Sources:    []domain.AnswerSource{},
			Confidence: 0,
		}, nil
	}

	if len(chunks) > maxSources {
		chunks = chunks[:maxSources]
	}

	var contextParts []string
	sources := make([]domain.AnswerSource, 0, len(chunks))
	for i, chunk := range chunks {
		contextParts = append(contextParts, fmt.Sprintf(
			"[Source %d: %s - %s]\n%s\n",
			i+1, orUnknown(chunk.Filename), orUnknown(string(chunk.DocumentType)), chunk.Text,
		))
		sources = append(sources, domain.AnswerSource{
			DocumentID:     chunk.DocumentID,
			Filename:       chunk.Filename,
			DocumentType:   chunk.DocumentType,
			RelevanceScore: domain.RoundConfidence(chunk.Score),
		})
	}

	system := fmt.Sprintf(answerSystemPrompt, strings.Join(contextParts, "\n\n"))
	answer, err := uc.llm.Complete(ctx, system, question)
	if err != nil {
		return &domain.Answer{
			Answer:     fmt.Sprintf("An error occurred while processing your question: %v", err),
			Sources:    []domain.AnswerSource{},
			Confidence: 0,
		}, nil
	}

	var totalRelevance float64
	for _, s := range sources {
		totalRelevance += s.RelevanceScore
	}
	confidence := min(totalRelevance/float64(len(sources))*1.2, 1.0)

	return &domain.Answer{
		Answer:     answer,
		Sources:    sources,
		Confidence: domain.RoundConfidence(confidence),
	}, nil
}

// Compare answers a question across specific documents: up to three
// chunks retrieved per document, at most two quoted in the prompt, one
// source entry per compared document.
func (uc *AnswerUseCase) Compare(ctx context.Context, question string, documentIDs []string) (*domain.Comparison, error) {
	var order []string
	chunksByDoc := make(map[string][]domain.RetrievedChunk)

	for _, docID := range documentIDs {
		chunks := uc.retrieve(ctx, question, 3, domain.SearchFilter{DocumentID: docID})
		if len(chunks) == 0 {
			continue
		}
		if _, seen := chunksByDoc[docID]; !seen {
			order = append(order, docID)
		}
		chunksByDoc[docID] = append(chunksByDoc[docID], chunks...)
	}

	if len(order) == 0 {
		return &domain.Comparison{
			Answer:  noComparisonAnswer,
			Sources: []domain.AnswerSource{},
		}, nil
	}

	var contextParts []string
	sources := make([]domain.AnswerSource, 0, len(order))
	for _, docID := range order {
		chunks := chunksByDoc[docID]
		quoted := chunks
		if len(quoted) > 2 {
			quoted = quoted[:2]
		}
		texts := make([]string, len(quoted))
		for i, c := range quoted {
			texts[i] = c.Text
		}
		filename := chunks[0].Filename
		if filename == "" {
			filename = docID
		}
		contextParts = append(contextParts, fmt.Sprintf("Document: %s\n%s\n", filename, strings.Join(texts, "\n")))
		sources = append(sources, domain.AnswerSource{
			DocumentID:   docID,
			Filename:     chunks[0].Filename,
			DocumentType: chunks[0].DocumentType,
		})
	}

	system := fmt.Sprintf(compareSystemPrompt, strings.Join(contextParts, "\n---\n"))
	user := fmt.Sprintf("Compare these documents regarding: %s", question)

	answer, err := uc.llm.Complete(ctx, system, user)
	if err != nil {
		return &domain.Comparison{
			Answer:  fmt.Sprintf("Comparison failed: %v", err),
			Sources: []domain.AnswerSource{},
		}, nil
	}

	return &domain.Comparison{
		Answer:  answer,
		Sources: sources,
	}, nil
}

// retrieve embeds the query and searches the vector store. Failures
// degrade to an empty result set.
func (uc *AnswerUseCase) retrieve(ctx context.Context, query string, topK int, filter domain.SearchFilter) []domain.RetrievedChunk {
	queryVector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil
	}
	chunks, err := uc.vectorDB.Search(ctx, queryVector, topK, filter)
	if err != nil {
		return nil
	}
	return chunks
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
