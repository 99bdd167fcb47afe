package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/helpdesk/internal/domain"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

func newKnowledgeFixture(t *testing.T) (*KnowledgeService, *fakeArticleRepo, *domain.User) {
	t.Helper()
	articles := newFakeArticleRepo()
	users := newFakeUserRepo()
	admin := users.addUser("cleitinho", domain.RoleAdmin)
	return NewKnowledgeService(articles), articles, admin
}

func TestCreateArticleValidation(t *testing.T) {
	svc, _, admin := newKnowledgeFixture(t)

	cases := []ArticleInput{
		{Content: "c", Sector: domain.CategoryIT},
		{Title: "t", Sector: domain.CategoryIT},
		{Title: "t", Content: "c", Sector: "RH"},
	}
	for _, in := range cases {
		_, err := svc.CreateArticle(context.Background(), admin, in)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	}
}

func TestCreateArticleDefaultsActiveAndCleansTerms(t *testing.T) {
	svc, _, admin := newKnowledgeFixture(t)

	article, err := svc.CreateArticle(context.Background(), admin, ArticleInput{
		Title:    "Como Resetar Senha",
		Content:  "Passo a passo para resetar a senha.",
		Sector:   domain.CategoryIT,
		Keywords: []string{" senha ", "", "resetar"},
		Tags:     []string{"senha", "  "},
	})
	require.NoError(t, err)

	assert.True(t, article.IsActive)
	assert.Equal(t, admin.ID, article.CreatedBy)
	assert.Equal(t, []string{"senha", "resetar"}, article.Keywords)
	assert.Equal(t, []string{"senha"}, article.Tags)
}

func TestUpdateArticleNotFound(t *testing.T) {
	svc, _, _ := newKnowledgeFixture(t)

	_, err := svc.UpdateArticle(context.Background(), "missing", ArticleInput{
		Title: "t", Content: "c", Sector: domain.CategoryIT,
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestSearchExcludesInactiveArticles(t *testing.T) {
	svc, _, admin := newKnowledgeFixture(t)

	_, err := svc.CreateArticle(context.Background(), admin, ArticleInput{
		Title:    "Como Resetar Senha do Sistema",
		Content:  "Use a opção esqueci minha senha.",
		Sector:   domain.CategoryIT,
		Keywords: []string{"resetar", "senha"},
	})
	require.NoError(t, err)

	inactive := false
	hidden, err := svc.CreateArticle(context.Background(), admin, ArticleInput{
		Title:    "Senha de Administrador",
		Content:  "Procedimento interno de senha.",
		Sector:   domain.CategoryIT,
		Keywords: []string{"senha"},
		IsActive: &inactive,
	})
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), "resetar senha")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEqual(t, hidden.ID, results[0].Article.ID)
}

func TestSearchRequiresQuery(t *testing.T) {
	svc, _, _ := newKnowledgeFixture(t)

	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestDeactivatedArticleDisappearsFromSearch(t *testing.T) {
	svc, _, admin := newKnowledgeFixture(t)

	article, err := svc.CreateArticle(context.Background(), admin, ArticleInput{
		Title:    "Política de Garantia",
		Content:  "Prazos de garantia por produto.",
		Sector:   domain.CategoryCustomerService,
		Keywords: []string{"garantia"},
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateArticle(context.Background(), article.ID, ArticleInput{
		Title:    article.Title,
		Content:  article.Content,
		Sector:   article.Sector,
		Keywords: article.Keywords,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), "garantia")
	require.NoError(t, err)
	assert.Empty(t, results)
}
