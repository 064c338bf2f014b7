package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
)

type LanguageRepository interface {
	GetAll(ctx context.Context) ([]models.Language, error)
}

// StaticLanguageRepository serves a fixed language list.
type StaticLanguageRepository struct {
	languages []models.Language
}

func NewStaticLanguageRepository(languages ...models.Language) *StaticLanguageRepository {
	if len(languages) == 0 {
		languages = []models.Language{
			{Code: "en", Name: "English"},
			{Code: "sv", Name: "Svenska"},
		}
	}
	return &StaticLanguageRepository{languages: languages}
}

func (r *StaticLanguageRepository) GetAll(_ context.Context) ([]models.Language, error) {
	out := make([]models.Language, len(r.languages))
	copy(out, r.languages)
	return out, nil
}

type PostgresLanguageRepository struct {
	db *sql.DB
}

func NewPostgresLanguageRepository(db *sql.DB) *PostgresLanguageRepository {
	return &PostgresLanguageRepository{db: db}
}

func (r *PostgresLanguageRepository) GetAll(ctx context.Context) ([]models.Language, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT code, name FROM languages ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	languages := []models.Language{}
	for rows.Next() {
		var l models.Language
		if err := rows.Scan(&l.Code, &l.Name); err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}
