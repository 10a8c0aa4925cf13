package bot

import (
	"fmt"
	"strings"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/fare"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// 固定回覆文字。
const (
	msgRoleMismatch = "身份切換不會自動套用，如需變更請聯繫管理員處理。"
	msgSupport      = "已收到您的客服需求，請直接聯繫管理員協助處理。"
	msgUnrecognized = "請先輸入「我是乘客」或「我是司機」選擇身份。"
	msgBindGate     = "您尚未綁定司機，請先完成綁定後再使用其他功能。"
	msgAlreadyBound = "您已綁定司機，如需變更請聯繫管理員。"

	msgBindInstruction = "請輸入「綁定司機:司機編號」完成綁定。"
)

// roleName 回傳身份的顯示名稱。
func roleName(role model.Role) string {
	if role == model.RoleDriver {
		return "司機"
	}
	return "乘客"
}

// msgRoleSwitched 是身份選擇的確認回覆，沿用既有的措辭。
func msgRoleSwitched(name string, role model.Role) string {
	return fmt.Sprintf("%s，我已經將您切換為%s", name, roleName(role))
}

// msgEchoFallback 是萬用的回聲回覆：重複一次使用者的問題並指向幫助。
func msgEchoFallback(name, text string) string {
	return fmt.Sprintf("嗨~ %s，我重複一次你的問題: %s\n需要協助請輸入「幫助」。", name, text)
}

// msgDriverList 列出目前全部司機。
func msgDriverList(drivers []*model.User) string {
	if len(drivers) == 0 {
		return "目前尚無司機註冊。"
	}
	var sb strings.Builder
	sb.WriteString("目前的司機名單：")
	for _, d := range drivers {
		sb.WriteString(fmt.Sprintf("\n%s（%s）", d.ID, d.DisplayName))
	}
	return sb.String()
}

// msgRiderList 列出司機綁定的乘客。
func msgRiderList(riders []*model.User) string {
	if len(riders) == 0 {
		return "目前尚無乘客綁定您。"
	}
	var sb strings.Builder
	sb.WriteString("綁定您的乘客名單：")
	for _, r := range riders {
		sb.WriteString(fmt.Sprintf("\n%s（%s）", r.ID, r.DisplayName))
	}
	return sb.String()
}

// msgBound 是綁定成功的回覆。
func msgBound(driverName string) string {
	return fmt.Sprintf("已綁定司機 %s，之後的車費都會對應到這位司機。", driverName)
}

// msgTransferAccepted 是匯款成功的回覆。
func msgTransferAccepted(amount int) string {
	return fmt.Sprintf("已收到您本月的車費匯款 NT$%d，感謝！", amount)
}

// signed 把整數格式化為帶明確正負號的字串。
func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// msgStatement 把對帳單渲染為逐行的累計金額。
// 每行顯示套用該筆調整前的累計、調整金額與調整後的累計；
// 最後一行以淨調整額的正負決定補繳或折抵。
func msgStatement(statement *fare.Statement) string {
	if statement.Payment == nil {
		return "查無您的匯款紀錄。"
	}

	payment := statement.Payment
	if len(statement.Lines) == 0 {
		return fmt.Sprintf("您的匯款紀錄：NT$%d（%s）", payment.Amount, payment.RecordedAt.Format("2006-01-02"))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("您的匯款紀錄：NT$%d（%s）\n本月調整明細：", payment.Amount, payment.RecordedAt.Format("2006-01-02")))
	for _, line := range statement.Lines {
		sb.WriteString(fmt.Sprintf("\n%d %s = %d（%s）", line.Previous, signed(line.Delta), line.Total, line.Note))
	}

	switch {
	case statement.NetAdjustment > 0:
		sb.WriteString(fmt.Sprintf("\n下月需補繳 NT$%d", statement.NetAdjustment))
	case statement.NetAdjustment < 0:
		sb.WriteString(fmt.Sprintf("\n下月可折抵 NT$%d", -statement.NetAdjustment))
	default:
		sb.WriteString("\n本月帳目已平，無需補繳。")
	}
	return sb.String()
}

// msgIncomeReport 渲染司機的本月收入報表。
// 收入總計只加總匯款金額；本月無任何紀錄的乘客會列出提醒但不計入。
func msgIncomeReport(report *fare.IncomeReport) string {
	if len(report.Rows) == 0 {
		return "目前尚無乘客綁定您。"
	}

	var sb strings.Builder
	sb.WriteString("本月車費總計：")
	for _, row := range report.Rows {
		if !row.HasRecord {
			sb.WriteString(fmt.Sprintf("\n%s：本月尚無紀錄", row.Rider.DisplayName))
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s：匯款 NT$%d，調整 %s", row.Rider.DisplayName, row.PaymentAmount, signed(row.AdjustmentSum)))
	}
	sb.WriteString(fmt.Sprintf("\n收入總計 NT$%d", report.Total))
	return sb.String()
}

// msgAdjustmentRecorded 是補扣款登記成功的回覆。
func msgAdjustmentRecorded(riderName string, delta int, note string) string {
	if note == "" {
		return fmt.Sprintf("已登記 %s 的調整 %s。", riderName, signed(delta))
	}
	return fmt.Sprintf("已登記 %s 的調整 %s，備註：%s", riderName, signed(delta), note)
}

// msgAvailabilitySet 是開車時段宣告成功的回覆。
func msgAvailabilitySet(window *model.AvailabilityWindow, overridden bool) string {
	verb := "已登記"
	if overridden {
		verb = "已更新"
	}

	rangeText := fmt.Sprintf("%s~%s", window.StartDate.Format("2006-01-02"), window.EndDate.Format("2006-01-02"))
	if !window.IsOpen {
		return fmt.Sprintf("%s %s 不開車。", verb, rangeText)
	}
	return fmt.Sprintf("%s %s 開車，乘客數量 %d。", verb, rangeText, window.Capacity)
}

// msgHelp 回傳身份對應的指令清單與說明。
func msgHelp(role model.Role) string {
	if role == model.RoleDriver {
		return strings.Join([]string{
			"司機可用指令：",
			"車費總計 — 查看本月收入報表（車費查詢亦可）",
			"乘客名單 — 列出綁定您的乘客",
			"乘客編號:+金額 備註:原因 — 登記補收（- 為退還）",
			"YYYY-MM-DD~YYYY-MM-DD:開車 備註:說明 乘客數量:N — 宣告開車時段",
			"YYYY-MM-DD~YYYY-MM-DD:不開車 備註:說明 — 宣告不開車時段",
		}, "\n")
	}
	return strings.Join([]string{
		"乘客可用指令：",
		"車費匯款:金額 — 回報本月匯款",
		"車費查詢 — 查看本月對帳單",
		"綁定司機:司機編號 — 綁定司機（一次性）",
		"司機名單 — 列出目前的司機",
	}, "\n")
}
