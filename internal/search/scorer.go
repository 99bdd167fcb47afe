// Package search ranks knowledge articles against free-text queries with
// a weighted lexical-overlap heuristic. The corpus is small (hundreds of
// short articles at most) so every query is a full linear scan; if the
// corpus ever outgrows that, an inverted index over normalized tokens
// should replace the substring matching here.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/caseflow/helpdesk/internal/domain"
)

// Scoring weights. A raw score is divided by scoreCeiling and clamped to
// [0,1]; results at or below minScore are dropped.
const (
	titleWeight   = 10
	keywordWeight = 8
	tagWeight     = 6
	contentWeight = 4

	titleOccurrenceWeight   = 2
	contentOccurrenceWeight = 1
	occurrenceMinWordLen    = 4

	fullQueryBonus = 15
	scoreCeiling   = 50.0

	minScore   = 0.1
	maxResults = 5
)

// Result pairs an article with its relevance score.
type Result struct {
	Article domain.KnowledgeArticle `json:"article"`
	Score   float64                 `json:"score"`
}

// Rank scores the corpus against the query and returns up to maxResults
// articles ordered by descending score. Ties preserve corpus order, which
// callers supply most-recently-updated first. Inactive articles never
// make it into the corpus; Rank does not re-check the flag.
func Rank(query string, corpus []domain.KnowledgeArticle) []Result {
	normalizedQuery := Normalize(query)
	words := Tokenize(normalizedQuery)
	if normalizedQuery == "" {
		return nil
	}

	scored := make([]Result, 0, len(corpus))
	for _, article := range corpus {
		score := scoreArticle(normalizedQuery, words, &article)
		if score > minScore {
			scored = append(scored, Result{Article: article, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

func scoreArticle(normalizedQuery string, words []string, article *domain.KnowledgeArticle) float64 {
	title := Normalize(article.Title)
	content := Normalize(article.Content)
	keywords := normalizeTerms(article.Keywords)
	tags := normalizeTerms(article.Tags)
	fullText := title + " " + content + " " + keywords + " " + tags

	score := 0
	for _, word := range words {
		if strings.Contains(title, word) {
			score += titleWeight
		}
		if strings.Contains(keywords, word) {
			score += keywordWeight
		}
		if strings.Contains(tags, word) {
			score += tagWeight
		}
		if strings.Contains(content, word) {
			score += contentWeight
		}
	}

	for _, word := range words {
		if utf8.RuneCountInString(word) < occurrenceMinWordLen {
			continue
		}
		score += titleOccurrenceWeight * strings.Count(title, word)
		score += contentOccurrenceWeight * strings.Count(content, word)
	}

	if strings.Contains(fullText, normalizedQuery) {
		score += fullQueryBonus
	}

	normalized := float64(score) / scoreCeiling
	if normalized > 1 {
		normalized = 1
	}
	return normalized
}

func normalizeTerms(terms []string) string {
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		normalized = append(normalized, Normalize(term))
	}
	return strings.Join(normalized, " ")
}
