package command

import (
	"strings"
	"testing"
	"time"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		text string
		want Kind
	}{
		{"我是乘客", KindSetRole},
		{"我是司機", KindSetRole},
		{"車費查詢", KindQueryFare},
		{"車費總計", KindQueryFare},
		{"司機名單", KindListDrivers},
		{"乘客名單", KindListRiders},
		{"幫助", KindShowHelp},
	}

	for _, tt := range tests {
		cmd, perr := Parse(tt.text)
		if perr != nil {
			t.Errorf("Parse(%q) returned error %v", tt.text, perr)
			continue
		}
		if cmd.Kind != tt.want {
			t.Errorf("Parse(%q).Kind = %v, want %v", tt.text, cmd.Kind, tt.want)
		}
	}
}

func TestParse_LiteralsWithSurroundingWhitespace(t *testing.T) {
	cmd, perr := Parse("  車費查詢  ")
	if perr != nil {
		t.Fatalf("expected no error, got %v", perr)
	}
	if cmd.Kind != KindQueryFare {
		t.Errorf("Kind = %v, want %v", cmd.Kind, KindQueryFare)
	}
}

func TestParse_SetRoleCarriesRole(t *testing.T) {
	cmd, _ := Parse("我是乘客")
	if cmd.Role != model.RoleRider {
		t.Errorf("Role = %v, want %v", cmd.Role, model.RoleRider)
	}

	cmd, _ = Parse("我是司機")
	if cmd.Role != model.RoleDriver {
		t.Errorf("Role = %v, want %v", cmd.Role, model.RoleDriver)
	}
}

func TestParse_TransferFare_Valid(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"車費匯款:1200", 1200},
		{"車費匯款：1200", 1200},
		{"車費匯款: 1200", 1200},
		{"車費匯款1200", 1200},
		{"車費匯款:1", 1},
	}

	for _, tt := range tests {
		cmd, perr := Parse(tt.text)
		if perr != nil {
			t.Errorf("Parse(%q) returned error %v", tt.text, perr)
			continue
		}
		if cmd.Kind != KindTransferFare {
			t.Errorf("Parse(%q).Kind = %v, want KindTransferFare", tt.text, cmd.Kind)
		}
		if cmd.Amount != tt.want {
			t.Errorf("Parse(%q).Amount = %d, want %d", tt.text, cmd.Amount, tt.want)
		}
	}
}

func TestParse_TransferFare_MalformedAmounts(t *testing.T) {
	tests := []string{
		"車費匯款:0",
		"車費匯款:-5",
		"車費匯款:12a",
		"車費匯款:a12",
		"車費匯款:012",
		"車費匯款:1 200",
		"車費匯款:",
		"車費匯款",
		"車費匯款:1.5",
	}

	for _, text := range tests {
		_, perr := Parse(text)
		if perr == nil {
			t.Errorf("Parse(%q) = nil error, want malformed amount", text)
			continue
		}
		if perr.Code != model.ErrCodeMalformedAmount {
			t.Errorf("Parse(%q).Code = %q, want %q", text, perr.Code, model.ErrCodeMalformedAmount)
		}
	}
}

func TestParse_BindDriver(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"綁定司機:D1", "D1"},
		{"綁定司機：D1", "D1"},
		{"綁定司機 D1", "D1"},
	}

	for _, tt := range tests {
		cmd, perr := Parse(tt.text)
		if perr != nil {
			t.Errorf("Parse(%q) returned error %v", tt.text, perr)
			continue
		}
		if cmd.Kind != KindBindDriver {
			t.Errorf("Parse(%q).Kind = %v, want KindBindDriver", tt.text, cmd.Kind)
		}
		if cmd.DriverID != tt.want {
			t.Errorf("Parse(%q).DriverID = %q, want %q", tt.text, cmd.DriverID, tt.want)
		}
	}
}

func TestParse_BindDriver_EmptyID(t *testing.T) {
	_, perr := Parse("綁定司機:")
	if perr == nil {
		t.Fatal("expected malformed bind error, got nil")
	}
	if perr.Code != model.ErrCodeMalformedBind {
		t.Errorf("Code = %q, want %q", perr.Code, model.ErrCodeMalformedBind)
	}
}

func TestParse_Adjustment_Valid(t *testing.T) {
	cmd, perr := Parse("R1:+30 備註:加班加購")
	if perr != nil {
		t.Fatalf("expected no error, got %v", perr)
	}
	if cmd.Kind != KindRecordAdjustment {
		t.Fatalf("Kind = %v, want KindRecordAdjustment", cmd.Kind)
	}
	if cmd.Adjustment.RiderID != "R1" {
		t.Errorf("RiderID = %q, want %q", cmd.Adjustment.RiderID, "R1")
	}
	if cmd.Adjustment.Delta != 30 {
		t.Errorf("Delta = %d, want %d", cmd.Adjustment.Delta, 30)
	}
	if cmd.Adjustment.Note != "加班加購" {
		t.Errorf("Note = %q, want %q", cmd.Adjustment.Note, "加班加購")
	}
}

func TestParse_Adjustment_NegativeDelta(t *testing.T) {
	cmd, perr := Parse("R2:-15 備註:請假折抵")
	if perr != nil {
		t.Fatalf("expected no error, got %v", perr)
	}
	if cmd.Adjustment.Delta != -15 {
		t.Errorf("Delta = %d, want %d", cmd.Adjustment.Delta, -15)
	}
}

func TestParse_Adjustment_Malformed(t *testing.T) {
	tests := []string{
		"R1:30 備註:缺少正負號",
		"R1:+0 備註:零金額",
		"R1:-0 備註:零金額",
		"備註:沒有乘客編號",
		"R1 備註:沒有金額",
	}

	for _, text := range tests {
		_, perr := Parse(text)
		if perr == nil {
			t.Errorf("Parse(%q) = nil error, want malformed adjustment", text)
			continue
		}
		if perr.Code != model.ErrCodeMalformedAdjustment {
			t.Errorf("Parse(%q).Code = %q, want %q", text, perr.Code, model.ErrCodeMalformedAdjustment)
		}
	}
}

func TestParse_Adjustment_RemarkTooLong(t *testing.T) {
	note := strings.Repeat("長", 31)
	_, perr := Parse("R1:+30 備註:" + note)
	if perr == nil {
		t.Fatal("expected remark too long error, got nil")
	}
	if perr.Code != model.ErrCodeRemarkTooLong {
		t.Errorf("Code = %q, want %q", perr.Code, model.ErrCodeRemarkTooLong)
	}
}

func TestParse_Adjustment_RemarkAtLimit(t *testing.T) {
	note := strings.Repeat("長", 30)
	cmd, perr := Parse("R1:+30 備註:" + note)
	if perr != nil {
		t.Fatalf("expected no error for 30-rune note, got %v", perr)
	}
	if cmd.Adjustment.Note != note {
		t.Errorf("Note = %q, want 30-rune note preserved", cmd.Adjustment.Note)
	}
}

func TestParse_Availability_Valid(t *testing.T) {
	cmd, perr := Parse("2026-09-01~2026-09-05:開車 備註:假期加開 乘客數量:4")
	if perr != nil {
		t.Fatalf("expected no error, got %v", perr)
	}
	if cmd.Kind != KindSetAvailability {
		t.Fatalf("Kind = %v, want KindSetAvailability", cmd.Kind)
	}
	args := cmd.Availability
	if !args.IsOpen {
		t.Error("IsOpen = false, want true")
	}
	if args.StartDate != time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("StartDate = %v, want 2026-09-01", args.StartDate)
	}
	if args.EndDate != time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC) {
		t.Errorf("EndDate = %v, want 2026-09-05", args.EndDate)
	}
	if args.Note != "假期加開" {
		t.Errorf("Note = %q, want %q", args.Note, "假期加開")
	}
	if !args.HasCapacity || args.Capacity != 4 {
		t.Errorf("Capacity = %d (has=%v), want 4 (has=true)", args.Capacity, args.HasCapacity)
	}
}

func TestParse_Availability_ClosedWithoutCapacity(t *testing.T) {
	cmd, perr := Parse("2026-09-10~2026-09-12:不開車 備註:出國")
	if perr != nil {
		t.Fatalf("expected no error, got %v", perr)
	}
	args := cmd.Availability
	if args.IsOpen {
		t.Error("IsOpen = true, want false")
	}
	if args.HasCapacity {
		t.Error("HasCapacity = true, want false")
	}
	if args.Note != "出國" {
		t.Errorf("Note = %q, want %q", args.Note, "出國")
	}
}

func TestParse_Availability_Malformed(t *testing.T) {
	tests := []string{
		"2026-09-01~2026-09-05:開車",
		"2026-13-01~2026-09-05:開車 備註:月份不存在",
		"2026-09-01~2026-09-05:開車 備註:數量為零 乘客數量:0",
		"2026/09/01~2026/09/05:開車 備註:日期格式錯誤",
	}

	for _, text := range tests {
		_, perr := Parse(text)
		if perr == nil {
			t.Errorf("Parse(%q) = nil error, want malformed availability", text)
			continue
		}
		if perr.Code != model.ErrCodeMalformedAvailability {
			t.Errorf("Parse(%q).Code = %q, want %q", text, perr.Code, model.ErrCodeMalformedAvailability)
		}
	}
}

func TestParse_UnrecognizedFallsBackToEcho(t *testing.T) {
	tests := []string{
		"你好",
		"今天天氣如何",
		"hello",
	}

	for _, text := range tests {
		cmd, perr := Parse(text)
		if perr != nil {
			t.Errorf("Parse(%q) returned error %v", text, perr)
			continue
		}
		if cmd.Kind != KindEcho {
			t.Errorf("Parse(%q).Kind = %v, want KindEcho", text, cmd.Kind)
		}
		if cmd.Raw != text {
			t.Errorf("Parse(%q).Raw = %q, want original text", text, cmd.Raw)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindEcho, "echo"},
		{KindTransferFare, "transfer_fare"},
		{KindSetAvailability, "set_availability"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
