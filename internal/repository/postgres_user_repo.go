package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// PostgresUserRepo 是使用 PostgreSQL 的使用者儲存庫。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo 產生 PostgresUserRepo。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID 取得指定編號的使用者。找不到時回傳 nil。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	var boundDriverID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, role, bound_driver_id, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.DisplayName, &user.Role, &boundDriverID, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	user.BoundDriverID = boundDriverID.String
	return user, nil
}

// Create 建立使用者。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, display_name, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.DisplayName, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// BindDriver 把乘客綁定到司機。
func (r *PostgresUserRepo) BindDriver(ctx context.Context, riderID, driverID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET bound_driver_id = $2, updated_at = now()
		 WHERE id = $1 AND role = 'rider'`,
		riderID, driverID,
	)
	if err != nil {
		return fmt.Errorf("failed to bind driver: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rider not found: %s", riderID)
	}
	return nil
}

// ListDrivers 回傳全部司機，依建立時間排序。
func (r *PostgresUserRepo) ListDrivers(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, display_name, role, bound_driver_id, created_at, updated_at
		 FROM users WHERE role = 'driver' ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ListRidersOf 回傳綁定指定司機的全部乘客，依建立時間排序。
func (r *PostgresUserRepo) ListRidersOf(ctx context.Context, driverID string) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, display_name, role, bound_driver_id, created_at, updated_at
		 FROM users WHERE role = 'rider' AND bound_driver_id = $1 ORDER BY created_at, id`,
		driverID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list riders: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]*model.User, error) {
	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		var boundDriverID sql.NullString
		if err := rows.Scan(&user.ID, &user.DisplayName, &user.Role, &boundDriverID, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.BoundDriverID = boundDriverID.String
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
