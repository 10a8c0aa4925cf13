package repository

import (
	"testing"
)

// PostgresUserRepo 滿足 UserRepository 介面的驗證
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresPaymentRepo 滿足 PaymentRepository 介面的驗證
func TestPostgresPaymentRepo_ImplementsInterface(t *testing.T) {
	var _ PaymentRepository = (*PostgresPaymentRepo)(nil)
}

// PostgresAdjustmentRepo 滿足 AdjustmentRepository 介面的驗證
func TestPostgresAdjustmentRepo_ImplementsInterface(t *testing.T) {
	var _ AdjustmentRepository = (*PostgresAdjustmentRepo)(nil)
}

// PostgresAvailabilityRepo 滿足 AvailabilityRepository 介面的驗證
func TestPostgresAvailabilityRepo_ImplementsInterface(t *testing.T) {
	var _ AvailabilityRepository = (*PostgresAvailabilityRepo)(nil)
}

// NewPostgresUserRepo 正確初始化的驗證
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresPaymentRepo 正確初始化的驗證
func TestNewPostgresPaymentRepo_Initializes(t *testing.T) {
	repo := NewPostgresPaymentRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresAdjustmentRepo 正確初始化的驗證
func TestNewPostgresAdjustmentRepo_Initializes(t *testing.T) {
	repo := NewPostgresAdjustmentRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresAvailabilityRepo 正確初始化的驗證
func TestNewPostgresAvailabilityRepo_Initializes(t *testing.T) {
	repo := NewPostgresAvailabilityRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
