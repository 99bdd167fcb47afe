package dto

import (
	"github.com/caseflow/helpdesk/internal/domain"
	"github.com/caseflow/helpdesk/internal/search"
)

type ArticleRequest struct {
	Title    string                `json:"title"`
	Content  string                `json:"content"`
	Sector   domain.TicketCategory `json:"sector"`
	Keywords []string              `json:"keywords"`
	Tags     []string              `json:"tags"`
	IsActive *bool                 `json:"is_active"`
}

type ArticleListResponse struct {
	Articles []domain.KnowledgeArticle `json:"articles"`
}

type ArticleResponse struct {
	Article domain.KnowledgeArticle `json:"article"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}
