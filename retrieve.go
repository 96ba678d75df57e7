package sitechat

import (
	"sort"
	"strings"
	"unicode"
)

// minTermLength filters out stopword-sized query terms ("a", "to", "is").
const minTermLength = 3

// ScoredChunk is a chunk ranked against a query. It is transient; nothing
// persists it.
type ScoredChunk struct {
	URL   string `json:"url"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// QueryTerms lower-cases the query, splits it on non-letter/digit runs, and
// drops terms shorter than three characters.
func QueryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := fields[:0]
	for _, f := range fields {
		if len(f) >= minTermLength {
			terms = append(terms, f)
		}
	}
	if len(terms) == 0 {
		return nil
	}
	return terms
}

// RankChunks scores every chunk in the snapshot against the query and
// returns the top k chunks with strictly positive scores, ordered by
// descending score. Ties keep document order (then chunk order), so the
// ranking is deterministic for a fixed snapshot. A non-positive k means
// no truncation.
func RankChunks(snap *Snapshot, query string, k int) []ScoredChunk {
	terms := QueryTerms(query)
	if snap == nil || len(terms) == 0 {
		return nil
	}

	var scored []ScoredChunk
	for _, doc := range snap.Documents {
		for _, chunk := range doc.Chunks {
			if score := scoreChunk(terms, chunk); score > 0 {
				scored = append(scored, ScoredChunk{
					URL:   doc.URL,
					Text:  chunk,
					Score: score,
				})
			}
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// scoreChunk sums, across terms, the number of whole-word case-insensitive
// occurrences of each term in the chunk. Tokenization mirrors QueryTerms so
// "price" matches "Price." but not "priceless".
func scoreChunk(terms []string, chunk string) int {
	words := strings.FieldsFunc(strings.ToLower(chunk), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	score := 0
	for _, term := range terms {
		for _, w := range words {
			if w == term {
				score++
			}
		}
	}
	return score
}

// BuildContext assembles the LLM context string from ranked chunks: for each
// chunk, a source-attribution line followed by the chunk text. Assembly
// stops once the character budget is exhausted; the chunk that crosses the
// budget is truncated to fit and nothing further is appended. The result
// never exceeds budget. Returns an empty string when no chunks are given.
func BuildContext(chunks []ScoredChunk, budget int) string {
	if budget <= 0 {
		return ""
	}

	var sb strings.Builder
	for _, c := range chunks {
		remaining := budget - sb.Len()
		if remaining <= 0 {
			break
		}
		block := "Source: " + c.URL + "\n" + c.Text + "\n\n"
		if len(block) > remaining {
			sb.WriteString(block[:remaining])
			break
		}
		sb.WriteString(block)
	}
	return sb.String()
}
