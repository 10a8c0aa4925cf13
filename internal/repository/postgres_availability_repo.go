package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// PostgresAvailabilityRepo 是使用 PostgreSQL 的開車時段儲存庫。
type PostgresAvailabilityRepo struct {
	db *sql.DB
}

// NewPostgresAvailabilityRepo 產生 PostgresAvailabilityRepo。
func NewPostgresAvailabilityRepo(db *sql.DB) *PostgresAvailabilityRepo {
	return &PostgresAvailabilityRepo{db: db}
}

// FindByDriverMonth 取得司機在指定月份的時段宣告。找不到時回傳 nil。
func (r *PostgresAvailabilityRepo) FindByDriverMonth(ctx context.Context, driverID string, month time.Time) (*model.AvailabilityWindow, error) {
	window := &model.AvailabilityWindow{}
	var capacity sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, driver_id, month, start_date, end_date, is_open, note, capacity, created_at, updated_at
		 FROM availability_windows
		 WHERE driver_id = $1 AND month = date_trunc('month', $2::date)`,
		driverID, month,
	).Scan(&window.ID, &window.DriverID, &window.Month, &window.StartDate, &window.EndDate,
		&window.IsOpen, &window.Note, &capacity, &window.CreatedAt, &window.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find availability window: %w", err)
	}

	window.Capacity = int(capacity.Int64)
	return window, nil
}

// Upsert 寫入時段宣告。同一司機同月已有宣告時整列覆蓋：
// 最新的宣告一律勝出，不做區間合併。
func (r *PostgresAvailabilityRepo) Upsert(ctx context.Context, window *model.AvailabilityWindow) error {
	var capacity sql.NullInt64
	if window.IsOpen {
		capacity = sql.NullInt64{Int64: int64(window.Capacity), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO availability_windows
		   (id, driver_id, month, start_date, end_date, is_open, note, capacity, created_at, updated_at)
		 VALUES ($1, $2, date_trunc('month', $3::date), $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (driver_id, month) DO UPDATE SET
		   start_date = EXCLUDED.start_date,
		   end_date = EXCLUDED.end_date,
		   is_open = EXCLUDED.is_open,
		   note = EXCLUDED.note,
		   capacity = EXCLUDED.capacity,
		   updated_at = EXCLUDED.updated_at`,
		window.ID, window.DriverID, window.Month, window.StartDate, window.EndDate,
		window.IsOpen, window.Note, capacity, window.CreatedAt, window.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert availability window: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AvailabilityRepository = (*PostgresAvailabilityRepo)(nil)
