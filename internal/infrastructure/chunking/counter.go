package chunking

import "unicode/utf8"

// ApproxCounter estimates token counts at roughly four characters per
// token. Good enough for chunk sizing when no model tokenizer is wired.
type ApproxCounter struct{}

func (ApproxCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	n := utf8.RuneCountInString(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}
