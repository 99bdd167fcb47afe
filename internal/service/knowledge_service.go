package service

import (
	"context"
	"strings"

	"github.com/caseflow/helpdesk/internal/domain"
	"github.com/caseflow/helpdesk/internal/repository"
	"github.com/caseflow/helpdesk/internal/search"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

type KnowledgeService struct {
	articles repository.ArticleRepository
}

func NewKnowledgeService(articles repository.ArticleRepository) *KnowledgeService {
	return &KnowledgeService{articles: articles}
}

type ArticleInput struct {
	Title    string
	Content  string
	Sector   domain.TicketCategory
	Keywords []string
	Tags     []string
	IsActive *bool
}

func (s *KnowledgeService) ListArticles(ctx context.Context) ([]domain.KnowledgeArticle, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

func (s *KnowledgeService) CreateArticle(ctx context.Context, actor *domain.User, in ArticleInput) (*domain.KnowledgeArticle, error) {
	if err := validateArticleInput(&in); err != nil {
		return nil, err
	}

	article := &domain.KnowledgeArticle{
		Title:     in.Title,
		Content:   in.Content,
		Sector:    in.Sector,
		Keywords:  cleanTerms(in.Keywords),
		Tags:      cleanTerms(in.Tags),
		IsActive:  true,
		CreatedBy: actor.ID,
	}
	if in.IsActive != nil {
		article.IsActive = *in.IsActive
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

func (s *KnowledgeService) UpdateArticle(ctx context.Context, id string, in ArticleInput) (*domain.KnowledgeArticle, error) {
	if err := validateArticleInput(&in); err != nil {
		return nil, err
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "article")
	}

	article.Title = in.Title
	article.Content = in.Content
	article.Sector = in.Sector
	article.Keywords = cleanTerms(in.Keywords)
	article.Tags = cleanTerms(in.Tags)
	if in.IsActive != nil {
		article.IsActive = *in.IsActive
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

func (s *KnowledgeService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		return notFound(err, "article")
	}
	return nil
}

// Search ranks active articles against a free-text query.
func (s *KnowledgeService) Search(ctx context.Context, query string) ([]search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewValidationError("query is required", nil)
	}
	corpus, err := s.articles.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return search.Rank(query, corpus), nil
}

func validateArticleInput(in *ArticleInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	if in.Title == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	if in.Content == "" {
		return apperrors.NewValidationError("content is required", nil)
	}
	if !domain.ValidCategory(in.Sector) {
		return apperrors.NewValidationError("invalid sector", map[string]any{"sector": in.Sector})
	}
	return nil
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
