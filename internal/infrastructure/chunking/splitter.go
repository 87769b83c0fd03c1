package chunking

import (
	"strings"

	"github.com/renewintel/ddroom/internal/core/ports"
)

// defaultSeparators is ordered from the most natural boundary to the
// least: paragraph, line, sentence, word, then a hard character cut.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter breaks text into token-bounded chunks, preferring to cut at
// paragraph boundaries and falling back to finer separators only when a
// piece is still too large. Adjacent chunks share a token overlap so
// sentences straddling a cut stay retrievable.
type Splitter struct {
	chunkSize  int
	overlap    int
	counter    ports.TokenCounter
	separators []string
}

func NewSplitter(chunkSize, overlap int, counter ports.TokenCounter) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	if counter == nil {
		counter = ApproxCounter{}
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		counter:    counter,
		separators: defaultSeparators,
	}
}

func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, cand := range separators {
		if cand == "" || strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return s.hardCut(text)
	}

	// Separators stay attached to the preceding piece so joining the
	// window back together reproduces the original text.
	parts := strings.SplitAfter(text, sep)

	var chunks []string
	var pending []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if s.counter.Count(part) <= s.chunkSize {
			pending = append(pending, part)
			continue
		}
		chunks = append(chunks, s.merge(pending)...)
		pending = nil
		chunks = append(chunks, s.split(part, rest)...)
	}
	chunks = append(chunks, s.merge(pending)...)
	return chunks
}

// merge packs small pieces into chunks up to the token budget, carrying
// a trailing window of pieces worth at most overlap tokens into the
// next chunk.
func (s *Splitter) merge(parts []string) []string {
	var chunks []string
	var window []string
	total := 0
	for _, part := range parts {
		n := s.counter.Count(part)
		if total+n > s.chunkSize && len(window) > 0 {
			if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
				chunks = append(chunks, c)
			}
			for len(window) > 0 && (total > s.overlap || total+n > s.chunkSize) {
				total -= s.counter.Count(window[0])
				window = window[1:]
			}
		}
		window = append(window, part)
		total += n
	}
	if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// hardCut slices text that has no usable separators. Window size
// assumes the four-characters-per-token approximation.
func (s *Splitter) hardCut(text string) []string {
	runes := []rune(text)
	window := s.chunkSize * 4
	var out []string
	for start := 0; start < len(runes); start += window {
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}
		if c := strings.TrimSpace(string(runes[start:end])); c != "" {
			out = append(out, c)
		}
	}
	return out
}
