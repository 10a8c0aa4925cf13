package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// uniqueViolation 是 PostgreSQL 唯一性違反的錯誤代碼。
const uniqueViolation = "23505"

// PostgresPaymentRepo 是使用 PostgreSQL 的車費匯款儲存庫。
type PostgresPaymentRepo struct {
	db *sql.DB
}

// NewPostgresPaymentRepo 產生 PostgresPaymentRepo。
func NewPostgresPaymentRepo(db *sql.DB) *PostgresPaymentRepo {
	return &PostgresPaymentRepo{db: db}
}

// FindLatestByRider 取得乘客最近一筆匯款：依 recorded_at 由新到舊，
// 同日以寫入順序決勝。找不到時回傳 nil。
func (r *PostgresPaymentRepo) FindLatestByRider(ctx context.Context, riderID string) (*model.Payment, error) {
	payment := &model.Payment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, rider_id, amount, recorded_at, created_at
		 FROM payments WHERE rider_id = $1
		 ORDER BY recorded_at DESC, created_at DESC, id DESC
		 LIMIT 1`,
		riderID,
	).Scan(&payment.ID, &payment.RiderID, &payment.Amount, &payment.RecordedAt, &payment.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest payment: %w", err)
	}

	return payment, nil
}

// Create 建立匯款列。同月已有匯款時回傳 ErrDuplicateMonthlyPayment。
func (r *PostgresPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, rider_id, amount, recorded_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		payment.ID, payment.RiderID, payment.Amount, payment.RecordedAt, payment.CreatedAt,
	)
	if err != nil {
		return mapPaymentInsertError(err)
	}
	return nil
}

// mapPaymentInsertError 把同月唯一索引的違反轉成 ErrDuplicateMonthlyPayment，
// 其餘錯誤包裝後原樣往上傳。
func mapPaymentInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateMonthlyPayment
	}
	return fmt.Errorf("failed to insert payment: %w", err)
}

// compile-time interface check
var _ PaymentRepository = (*PostgresPaymentRepo)(nil)
