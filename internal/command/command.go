// Package command 提供指令文法：把原始訊息文字解析為型別化的指令。
// 解析本身與身份無關，按身份的可見性由路由層控制。
package command

import (
	"time"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// Kind 表示指令種類。
type Kind int

const (
	// KindEcho 是萬用的回聲指令：任何無法辨識的文字都落在這裡，
	// 路由層永遠有東西可以回覆。
	KindEcho Kind = iota
	// KindSetRole 是身份選擇指令（我是乘客 / 我是司機）。
	KindSetRole
	// KindBindDriver 是乘客綁定司機指令。
	KindBindDriver
	// KindTransferFare 是乘客回報整筆月費匯款指令。
	KindTransferFare
	// KindQueryFare 是車費查詢指令：乘客查自己的對帳單，司機查收入總計。
	KindQueryFare
	// KindListDrivers 是列出司機名單指令。
	KindListDrivers
	// KindListRiders 是列出乘客名單指令。
	KindListRiders
	// KindRecordAdjustment 是司機登記補扣款指令。
	KindRecordAdjustment
	// KindSetAvailability 是司機宣告開車時段指令。
	KindSetAvailability
	// KindShowHelp 是顯示指令清單指令。
	KindShowHelp
)

// kindNames 是 Kind 對應的名稱，用於日誌與指標標籤。
var kindNames = map[Kind]string{
	KindEcho:             "echo",
	KindSetRole:          "set_role",
	KindBindDriver:       "bind_driver",
	KindTransferFare:     "transfer_fare",
	KindQueryFare:        "query_fare",
	KindListDrivers:      "list_drivers",
	KindListRiders:       "list_riders",
	KindRecordAdjustment: "record_adjustment",
	KindSetAvailability:  "set_availability",
	KindShowHelp:         "show_help",
}

// String 回傳指令種類的名稱。
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// AdjustmentArgs 是補扣款指令的解析結果。
type AdjustmentArgs struct {
	RiderID string
	Delta   int
	Note    string
}

// AvailabilityArgs 是開車時段指令的解析結果。
// Capacity 僅在 HasCapacity 為 true 時有意義。
type AvailabilityArgs struct {
	StartDate   time.Time
	EndDate     time.Time
	IsOpen      bool
	Note        string
	Capacity    int
	HasCapacity bool
}

// Command 是解析後的指令，依 Kind 攜帶對應的參數。
type Command struct {
	Kind Kind
	Raw  string

	Role         model.Role        // KindSetRole
	DriverID     string            // KindBindDriver
	Amount       int               // KindTransferFare
	Adjustment   *AdjustmentArgs   // KindRecordAdjustment
	Availability *AvailabilityArgs // KindSetAvailability
}
