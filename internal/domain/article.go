package domain

import "time"

// KnowledgeArticle is a pre-authored answer to a common question,
// retrievable through the search scorer. Only active articles
// participate in retrieval; retired articles are soft-disabled via
// IsActive rather than deleted.
type KnowledgeArticle struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Sector    TicketCategory `json:"sector"`
	Keywords  []string       `json:"keywords"`
	Tags      []string       `json:"tags"`
	IsActive  bool           `json:"is_active"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
