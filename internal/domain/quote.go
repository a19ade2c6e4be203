package domain

// Quote is one entry of the static quote list. Quotes are loaded once per
// process and never stored in the database; ID is a content address derived
// from the quote text.
type Quote struct {
	ID                string  `json:"id"`
	Quote             string  `json:"quote"`
	Source            string  `json:"source,omitempty"`
	TranslationAuthor *string `json:"translationAuthor,omitempty"`
	TranslationSource *string `json:"translationSource,omitempty"`
	TopComment        *string `json:"topComment,omitempty"`
}

// Preview returns at most n runes of the quote text.
func (q Quote) Preview(n int) string {
	r := []rune(q.Quote)
	if n < 0 || len(r) <= n {
		return q.Quote
	}
	return string(r[:n])
}
