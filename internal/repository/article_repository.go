package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caseflow/helpdesk/internal/domain"
)

// ArticleRepository encapsulates knowledge-article persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.KnowledgeArticle) error
	Update(ctx context.Context, article *domain.KnowledgeArticle) error
	GetByID(ctx context.Context, id string) (*domain.KnowledgeArticle, error)
	// List returns every article, most recently updated first.
	List(ctx context.Context) ([]domain.KnowledgeArticle, error)
	// ListActive returns the retrieval corpus, most recently updated
	// first; the scorer relies on that order for tie-breaking.
	ListActive(ctx context.Context) ([]domain.KnowledgeArticle, error)
	Delete(ctx context.Context, id string) error
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates the repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, title, content, sector, keywords, tags, is_active, created_by, created_at, updated_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.KnowledgeArticle) error {
	const query = `
        INSERT INTO knowledge_articles (title, content, sector, keywords, tags, is_active, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Sector,
		article.Keywords,
		article.Tags,
		article.IsActive,
		article.CreatedBy,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.KnowledgeArticle) error {
	const query = `
        UPDATE knowledge_articles
        SET title=$1, content=$2, sector=$3, keywords=$4, tags=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Content,
		article.Sector,
		article.Keywords,
		article.Tags,
		article.IsActive,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM knowledge_articles WHERE id=$1`
	var article domain.KnowledgeArticle
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Sector,
		&article.Keywords,
		&article.Tags,
		&article.IsActive,
		&article.CreatedBy,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context) ([]domain.KnowledgeArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM knowledge_articles ORDER BY updated_at DESC`
	return r.fetchMany(ctx, query)
}

func (r *articleRepository) ListActive(ctx context.Context) ([]domain.KnowledgeArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM knowledge_articles WHERE is_active=TRUE ORDER BY updated_at DESC`
	return r.fetchMany(ctx, query)
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM knowledge_articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) fetchMany(ctx context.Context, query string) ([]domain.KnowledgeArticle, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.KnowledgeArticle
	for rows.Next() {
		var article domain.KnowledgeArticle
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.Sector,
			&article.Keywords,
			&article.Tags,
			&article.IsActive,
			&article.CreatedBy,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}
