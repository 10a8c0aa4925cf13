package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// PostgresAdjustmentRepo 是使用 PostgreSQL 的補扣款儲存庫。
type PostgresAdjustmentRepo struct {
	db *sql.DB
}

// NewPostgresAdjustmentRepo 產生 PostgresAdjustmentRepo。
func NewPostgresAdjustmentRepo(db *sql.DB) *PostgresAdjustmentRepo {
	return &PostgresAdjustmentRepo{db: db}
}

// ListByRiderInMonth 回傳乘客在指定月份的全部補扣款，
// 依 recorded_at 由舊到新。對帳摺疊依賴這個順序，不得改動。
func (r *PostgresAdjustmentRepo) ListByRiderInMonth(ctx context.Context, riderID string, month time.Time) ([]*model.Adjustment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, rider_id, delta, note, recorded_at, created_at
		 FROM adjustments
		 WHERE rider_id = $1
		   AND date_trunc('month', recorded_at) = date_trunc('month', $2::date)
		 ORDER BY recorded_at, created_at, id`,
		riderID, month,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []*model.Adjustment
	for rows.Next() {
		adj := &model.Adjustment{}
		if err := rows.Scan(&adj.ID, &adj.RiderID, &adj.Delta, &adj.Note, &adj.RecordedAt, &adj.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate adjustments: %w", err)
	}

	return adjustments, nil
}

// Create 建立補扣款列。
func (r *PostgresAdjustmentRepo) Create(ctx context.Context, adjustment *model.Adjustment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO adjustments (id, rider_id, delta, note, recorded_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		adjustment.ID, adjustment.RiderID, adjustment.Delta, adjustment.Note,
		adjustment.RecordedAt, adjustment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert adjustment: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AdjustmentRepository = (*PostgresAdjustmentRepo)(nil)
