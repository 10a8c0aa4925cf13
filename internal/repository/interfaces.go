// Package repository 定義資料持久化的介面。
package repository

import (
	"context"
	"time"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// UserRepository 是使用者資料的持久化介面。
type UserRepository interface {
	// FindByID 取得指定編號的使用者。找不到時回傳 nil。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create 建立使用者。
	Create(ctx context.Context, user *model.User) error

	// BindDriver 把乘客綁定到司機。綁定是一次性的，不提供解除。
	BindDriver(ctx context.Context, riderID, driverID string) error

	// ListDrivers 回傳全部司機，依建立時間排序。
	ListDrivers(ctx context.Context) ([]*model.User, error)

	// ListRidersOf 回傳綁定指定司機的全部乘客，依建立時間排序。
	ListRidersOf(ctx context.Context, driverID string) ([]*model.User, error)
}

// PaymentRepository 是車費匯款資料的持久化介面。
type PaymentRepository interface {
	// FindLatestByRider 取得乘客最近一筆匯款：依 recorded_at 由新到舊，
	// 同日以寫入順序決勝。找不到時回傳 nil。
	FindLatestByRider(ctx context.Context, riderID string) (*model.Payment, error)

	// Create 建立匯款列。同一乘客同月已有匯款時回傳 ErrDuplicateMonthlyPayment
	// （由 (rider_id, 月份) 唯一索引保證，兩筆並發匯款不可能同時成立）。
	Create(ctx context.Context, payment *model.Payment) error
}

// AdjustmentRepository 是補扣款資料的持久化介面。
type AdjustmentRepository interface {
	// ListByRiderInMonth 回傳乘客在指定月份的全部補扣款，
	// 依 recorded_at 由舊到新，同日以寫入順序排序。
	ListByRiderInMonth(ctx context.Context, riderID string, month time.Time) ([]*model.Adjustment, error)

	// Create 建立補扣款列。
	Create(ctx context.Context, adjustment *model.Adjustment) error
}

// AvailabilityRepository 是開車時段資料的持久化介面。
type AvailabilityRepository interface {
	// FindByDriverMonth 取得司機在指定月份的時段宣告。找不到時回傳 nil。
	FindByDriverMonth(ctx context.Context, driverID string, month time.Time) (*model.AvailabilityWindow, error)

	// Upsert 寫入時段宣告；同一司機同月已有宣告時整列覆蓋。
	Upsert(ctx context.Context, window *model.AvailabilityWindow) error
}
