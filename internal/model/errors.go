// Package model 定義領域模型。
package model

import "fmt"

// BotError 是統一的錯誤格式。
// Message 與 Hint 會直接組成回覆給使用者的文字（system 類別除外，
// system 只回固定的忙碌訊息，細節僅寫入日誌）。
type BotError struct {
	Code     string // 錯誤代碼
	Message  string // 錯誤訊息
	Category string // 類別: parse, domain, lookup, system
	Hint     string // 給使用者的修正提示
}

// Error 實作 error 介面。
func (e *BotError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ReplyText 回傳要回覆給使用者的文字。
func (e *BotError) ReplyText() string {
	if e.Hint == "" {
		return e.Message
	}
	return e.Message + "\n" + e.Hint
}

// 預先定義的錯誤代碼
const (
	ErrCodeMalformedAmount       = "MALFORMED_AMOUNT"
	ErrCodeMalformedBind         = "MALFORMED_BIND"
	ErrCodeMalformedAdjustment   = "MALFORMED_ADJUSTMENT"
	ErrCodeMalformedAvailability = "MALFORMED_AVAILABILITY"
	ErrCodeRemarkTooLong         = "REMARK_TOO_LONG"
	ErrCodeAlreadyPaid           = "ALREADY_PAID"
	ErrCodeUnknownRider          = "UNKNOWN_RIDER"
	ErrCodeUnknownDriver         = "UNKNOWN_DRIVER"
	ErrCodePastDate              = "PAST_DATE"
	ErrCodeCrossMonthRange       = "CROSS_MONTH_RANGE"
	ErrCodeMissingCapacity       = "MISSING_CAPACITY"
	ErrCodeStoreFailure          = "STORE_FAILURE"
)

// NewMalformedAmountError 產生車費金額格式錯誤。
func NewMalformedAmountError() *BotError {
	return &BotError{
		Code:     ErrCodeMalformedAmount,
		Message:  "車費金額格式不正確。",
		Category: "parse",
		Hint:     "請輸入不含前導零的正整數，例如：車費匯款:1200",
	}
}

// NewMalformedBindError 產生綁定司機格式錯誤。
func NewMalformedBindError() *BotError {
	return &BotError{
		Code:     ErrCodeMalformedBind,
		Message:  "綁定司機格式不正確。",
		Category: "parse",
		Hint:     "請輸入司機編號，例如：綁定司機:D1",
	}
}

// NewMalformedAdjustmentError 產生補扣款格式錯誤。
func NewMalformedAdjustmentError() *BotError {
	return &BotError{
		Code:     ErrCodeMalformedAdjustment,
		Message:  "補扣款格式不正確。",
		Category: "parse",
		Hint:     "請輸入乘客編號與帶正負號的金額，例如：R1:+100 備註:下雨加價",
	}
}

// NewMalformedAvailabilityError 產生開車時段格式錯誤。
func NewMalformedAvailabilityError() *BotError {
	return &BotError{
		Code:     ErrCodeMalformedAvailability,
		Message:  "開車時段格式不正確。",
		Category: "parse",
		Hint:     "範例：2026-09-01~2026-09-10:開車 備註:國道路線 乘客數量:4",
	}
}

// NewRemarkTooLongError 產生備註過長錯誤。
// 備註上限為 30 個字，超過時拒絕而不是默默截斷。
func NewRemarkTooLongError(length int) *BotError {
	return &BotError{
		Code:     ErrCodeRemarkTooLong,
		Message:  fmt.Sprintf("備註過長（%d 字），上限為 30 字。", length),
		Category: "parse",
		Hint:     "請縮短備註後重新輸入。",
	}
}

// NewAlreadyPaidError 產生當月已匯款錯誤。
func NewAlreadyPaidError(amount int) *BotError {
	return &BotError{
		Code:     ErrCodeAlreadyPaid,
		Message:  fmt.Sprintf("您本月已匯款 NT$%d，毋需重複匯款。", amount),
		Category: "domain",
		Hint:     "如金額有誤，請司機以補扣款調整。",
	}
}

// NewUnknownRiderError 產生乘客不存在錯誤。
func NewUnknownRiderError(riderID string) *BotError {
	return &BotError{
		Code:     ErrCodeUnknownRider,
		Message:  fmt.Sprintf("找不到綁定您的乘客：%s", riderID),
		Category: "domain",
		Hint:     "請輸入「乘客名單」確認乘客編號。",
	}
}

// NewUnknownDriverError 產生司機不存在錯誤。
func NewUnknownDriverError(driverID string) *BotError {
	return &BotError{
		Code:     ErrCodeUnknownDriver,
		Message:  fmt.Sprintf("找不到司機：%s", driverID),
		Category: "lookup",
		Hint:     "請輸入「司機名單」確認司機編號後再綁定。",
	}
}

// NewPastDateError 產生日期已過錯誤。
func NewPastDateError() *BotError {
	return &BotError{
		Code:     ErrCodePastDate,
		Message:  "開車時段不可早於今天。",
		Category: "domain",
		Hint:     "請輸入今天（含）以後的日期。",
	}
}

// NewCrossMonthRangeError 產生跨月區間錯誤。
func NewCrossMonthRangeError() *BotError {
	return &BotError{
		Code:     ErrCodeCrossMonthRange,
		Message:  "開車時段的起訖日期必須在同一個月份。",
		Category: "domain",
		Hint:     "跨月請分成兩次輸入。",
	}
}

// NewMissingCapacityError 產生缺少乘客數量錯誤。
func NewMissingCapacityError() *BotError {
	return &BotError{
		Code:     ErrCodeMissingCapacity,
		Message:  "開車時段必須附上乘客數量。",
		Category: "domain",
		Hint:     "範例：2026-09-01~2026-09-10:開車 備註:國道路線 乘客數量:4",
	}
}
