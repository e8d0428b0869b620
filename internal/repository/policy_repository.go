package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sla-service/internal/domain"
)

// PolicyRepository reads sector SLA policies.
type PolicyRepository interface {
	List(ctx context.Context) ([]domain.Policy, error)
	GetBySector(ctx context.Context, sectorID string) (*domain.Policy, error)
}

type policyRepository struct {
	pool *pgxpool.Pool
}

// NewPolicyRepository constructs repository.
func NewPolicyRepository(pool *pgxpool.Pool) PolicyRepository {
	return &policyRepository{pool: pool}
}

// policyColumns is the SELECT list read by scanPolicy, in scan order.
const policyColumns = `sector_id, p0_hours, p1_hours, p2_hours, p3_hours`

func (r *policyRepository) List(ctx context.Context) ([]domain.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM sla_policies ORDER BY sector_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Policy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *policy)
	}
	return result, rows.Err()
}

func (r *policyRepository) GetBySector(ctx context.Context, sectorID string) (*domain.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM sla_policies WHERE sector_id=$1`
	return scanPolicy(r.pool.QueryRow(ctx, query, sectorID))
}

func scanPolicy(row pgx.Row) (*domain.Policy, error) {
	var policy domain.Policy
	if err := row.Scan(
		&policy.SectorID,
		&policy.P0Hours,
		&policy.P1Hours,
		&policy.P2Hours,
		&policy.P3Hours,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}
