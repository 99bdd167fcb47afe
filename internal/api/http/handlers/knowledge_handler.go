package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caseflow/helpdesk/internal/api/dto"
	"github.com/caseflow/helpdesk/internal/auth"
	"github.com/caseflow/helpdesk/internal/service"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

// KnowledgeHandler manages knowledge base endpoints.
type KnowledgeHandler struct {
	service *service.KnowledgeService
}

// NewKnowledgeHandler constructs handler.
func NewKnowledgeHandler(knowledgeService *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: knowledgeService}
}

// ListArticles GET /knowledge/articles.
func (h *KnowledgeHandler) ListArticles(c *fiber.Ctx) error {
	articles, err := h.service.ListArticles(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArticleListResponse{Articles: articles}})
}

// CreateArticle POST /knowledge/articles.
func (h *KnowledgeHandler) CreateArticle(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	article, err := h.service.CreateArticle(c.Context(), user, articleInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ArticleResponse{Article: *article}})
}

// UpdateArticle PUT /knowledge/articles/:id.
func (h *KnowledgeHandler) UpdateArticle(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	article, err := h.service.UpdateArticle(c.Context(), c.Params("id"), articleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArticleResponse{Article: *article}})
}

// DeleteArticle DELETE /knowledge/articles/:id.
func (h *KnowledgeHandler) DeleteArticle(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// Search POST /knowledge/search.
func (h *KnowledgeHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	results, err := h.service.Search(c.Context(), req.Query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SearchResponse{Query: req.Query, Results: results}})
}

func articleInput(req dto.ArticleRequest) service.ArticleInput {
	return service.ArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		Sector:   req.Sector,
		Keywords: req.Keywords,
		Tags:     req.Tags,
		IsActive: req.IsActive,
	}
}
