package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ramzez/hermes-travel/backend/internal/domain"
)

// DestinationRepo reads the curated destination catalogue consumed by the
// query-proxy endpoints. The catalogue is seeded by migrations and never
// written through this API.
type DestinationRepo interface {
	// List returns all destinations ordered by name.
	List(ctx context.Context) ([]domain.Destination, error)
}

// pgDestinationRepo is the Postgres implementation of DestinationRepo.
type pgDestinationRepo struct {
	db db
}

// NewDestinationRepo constructs a DestinationRepo backed by the provided db connection.
func NewDestinationRepo(db db) DestinationRepo {
	return &pgDestinationRepo{db: db}
}

func (r *pgDestinationRepo) List(ctx context.Context) ([]domain.Destination, error) {
	const q = `
		SELECT destination_id, name, country, image_url, description
		FROM destinations
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DestinationRepo.List: %w", err)
	}
	defer rows.Close()

	var out []domain.Destination
	for rows.Next() {
		var (
			d     domain.Destination
			img   pgtype.Text
			descr pgtype.Text
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Country, &img, &descr); err != nil {
			return nil, fmt.Errorf("repo.DestinationRepo.List: scan: %w", err)
		}
		d.ImageURL = img.String
		d.Description = descr.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DestinationRepo.List: rows: %w", err)
	}

	return out, nil
}
