package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
)

// 唯一索引違反要轉成同月重複匯款的哨兵錯誤
func TestMapPaymentInsertError_UniqueViolationBecomesSentinel(t *testing.T) {
	pqErr := &pq.Error{Code: uniqueViolation}

	err := mapPaymentInsertError(pqErr)
	if !errors.Is(err, ErrDuplicateMonthlyPayment) {
		t.Errorf("err = %v, want ErrDuplicateMonthlyPayment", err)
	}
}

// 驅動程式包裝過的唯一索引違反也要被 errors.As 解開
func TestMapPaymentInsertError_WrappedUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("exec failed: %w", &pq.Error{Code: uniqueViolation})

	err := mapPaymentInsertError(wrapped)
	if !errors.Is(err, ErrDuplicateMonthlyPayment) {
		t.Errorf("err = %v, want ErrDuplicateMonthlyPayment", err)
	}
}

// 其他 PostgreSQL 錯誤代碼不得誤判為同月重複
func TestMapPaymentInsertError_OtherPqCodeIsWrapped(t *testing.T) {
	// 23503 是外鍵違反
	pqErr := &pq.Error{Code: "23503"}

	err := mapPaymentInsertError(pqErr)
	if errors.Is(err, ErrDuplicateMonthlyPayment) {
		t.Errorf("err = %v, should not map to ErrDuplicateMonthlyPayment", err)
	}
	if !errors.Is(err, pqErr) {
		t.Errorf("err = %v, want wrapped original", err)
	}
	if !strings.Contains(err.Error(), "failed to insert payment") {
		t.Errorf("err = %v, want insert context in message", err)
	}
}

// 非驅動程式錯誤原樣包裝往上傳
func TestMapPaymentInsertError_PlainErrorIsWrapped(t *testing.T) {
	cause := errors.New("connection reset")

	err := mapPaymentInsertError(cause)
	if errors.Is(err, ErrDuplicateMonthlyPayment) {
		t.Errorf("err = %v, should not map to ErrDuplicateMonthlyPayment", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want wrapped cause", err)
	}
}
