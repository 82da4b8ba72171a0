package repository

import (
	"context"
	"database/sql"

	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM category ORDER BY name`)
	if err != nil {
		return nil, apierror.Database("list categories", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, apierror.Database("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.Database("list categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO category (name) VALUES ($1) RETURNING id, name`, name).Scan(&c.ID, &c.Name)
	if pgErrorCode(err) == pgUniqueViolation {
		return model.Category{}, apierror.New(apierror.KindAlreadyExists, "category already exists", name)
	}
	if err != nil {
		return model.Category{}, apierror.Database("create category", err)
	}
	return c, nil
}
