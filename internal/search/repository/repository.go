// Package repository provides the record stores search candidates are
// fetched from.
package repository

import (
	"context"
	"fmt"
	"time"

	"clientregistry/internal/search/domain"
	"clientregistry/internal/search/predicate"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store returns every record satisfying the expression, unordered and
// unpaginated, with case counts, operator name and last contact filled in.
type Store interface {
	FetchCandidates(ctx context.Context, expr predicate.Expression) ([]domain.CandidateRecord, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository is the Postgres-backed Store.
type Repository struct {
	db querier
}

// New creates a Postgres store on pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// FetchCandidates runs a single query: related counts and the last contact
// are aggregated with LATERAL joins instead of per-row lookups.
func (r *Repository) FetchCandidates(ctx context.Context, expr predicate.Expression) ([]domain.CandidateRecord, error) {
	query, args, err := buildCandidateQuery(expr)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	records := make([]domain.CandidateRecord, 0, 64)
	for rows.Next() {
		var (
			rec           domain.CandidateRecord
			operatorID    *int64
			operatorName  *string
			lastContactAt *time.Time
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.DisplayName,
			&rec.TaxCode,
			&rec.VATNumber,
			&rec.Email,
			&rec.Phone,
			&rec.MobilePhone,
			&rec.Address,
			&rec.City,
			&rec.Province,
			&rec.PostalCode,
			&rec.Notes,
			&rec.BusinessType,
			&rec.FiscalRegime,
			&rec.Active,
			&operatorID,
			&operatorName,
			&rec.TotalCases,
			&rec.OpenCases,
			&lastContactAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		rec.AssignedOperatorID = operatorID
		rec.AssignedOperatorName = operatorName
		rec.LastContactAt = lastContactAt
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return records, nil
}

var _ Store = (*Repository)(nil)
