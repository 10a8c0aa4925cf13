package command

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// 指令關鍵字。路由層的寬鬆比對也使用同一組常數。
const (
	KeywordTransferFare = "車費匯款"
	KeywordBindDriver   = "綁定司機"
	KeywordRemark       = "備註"
	KeywordOpen         = "開車"
	KeywordCapacity     = "乘客數量"
)

// 完全比對的字面指令。
const (
	LiteralRiderRole   = "我是乘客"
	LiteralDriverRole  = "我是司機"
	LiteralQueryFare   = "車費查詢"
	LiteralFareTotal   = "車費總計"
	LiteralListDrivers = "司機名單"
	LiteralListRiders  = "乘客名單"
	LiteralHelp        = "幫助"
)

// noteMaxLen 是補扣款備註的上限字數（以字為單位，不是位元組）。
const noteMaxLen = 30

var (
	// 金額必須是不含前導零的正整數，且整串比對到結尾。
	reAmount   = regexp.MustCompile(`^[1-9][0-9]*$`)
	reTransfer = regexp.MustCompile(`^車費匯款[:：]?(.*)$`)
	reBind     = regexp.MustCompile(`^綁定司機[:：]?(.*)$`)
	// 補扣款：乘客編號為英數字，金額必須帶明確的 + 或 - 號，備註取剩餘字串。
	reAdjustment = regexp.MustCompile(`^([A-Za-z0-9]+)[:：]?([+-][0-9]+)\s*備註[:：]?(.*)$`)
	// 開車時段：起訖日期、開車或不開車、備註，結尾可選乘客數量。
	reAvailability = regexp.MustCompile(`^([0-9]{4}-[0-9]{2}-[0-9]{2})~([0-9]{4}-[0-9]{2}-[0-9]{2})[:：](開車|不開車)\s*備註[:：](.*?)(?:\s*乘客數量[:：]([1-9][0-9]*))?$`)
)

// Parse 把原始訊息文字解析為指令。
// 先比對字面指令，再比對樣式指令；樣式指令帶有關鍵字但格式不符時
// 回傳型別化的解析錯誤，完全無法辨識的文字回傳 Echo 指令。
func Parse(text string) (*Command, *model.BotError) {
	trimmed := strings.TrimSpace(text)

	switch trimmed {
	case LiteralRiderRole:
		return &Command{Kind: KindSetRole, Raw: text, Role: model.RoleRider}, nil
	case LiteralDriverRole:
		return &Command{Kind: KindSetRole, Raw: text, Role: model.RoleDriver}, nil
	// 車費查詢與車費總計是同一種指令：乘客查對帳單，司機查收入總計。
	case LiteralQueryFare, LiteralFareTotal:
		return &Command{Kind: KindQueryFare, Raw: text}, nil
	case LiteralListDrivers:
		return &Command{Kind: KindListDrivers, Raw: text}, nil
	case LiteralListRiders:
		return &Command{Kind: KindListRiders, Raw: text}, nil
	case LiteralHelp:
		return &Command{Kind: KindShowHelp, Raw: text}, nil
	}

	switch {
	case strings.HasPrefix(trimmed, KeywordTransferFare):
		amount, err := ParseTransferFare(trimmed)
		if err != nil {
			return nil, err
		}
		return &Command{Kind: KindTransferFare, Raw: text, Amount: amount}, nil

	case strings.HasPrefix(trimmed, KeywordBindDriver):
		driverID, err := ParseBindDriver(trimmed)
		if err != nil {
			return nil, err
		}
		return &Command{Kind: KindBindDriver, Raw: text, DriverID: driverID}, nil

	// 不開車也包含「開車」子字串，一併落在這個分支。
	case strings.Contains(trimmed, KeywordOpen) && strings.Contains(trimmed, "~"):
		args, err := ParseAvailability(trimmed)
		if err != nil {
			return nil, err
		}
		return &Command{Kind: KindSetAvailability, Raw: text, Availability: args}, nil

	case strings.Contains(trimmed, KeywordRemark):
		args, err := ParseAdjustment(trimmed)
		if err != nil {
			return nil, err
		}
		return &Command{Kind: KindRecordAdjustment, Raw: text, Adjustment: args}, nil
	}

	return &Command{Kind: KindEcho, Raw: text}, nil
}

// ParseTransferFare 嚴格解析車費匯款指令，回傳金額。
// 金額必須是不含前導零的正整數，標籤之後不得有其他文字。
func ParseTransferFare(text string) (int, *model.BotError) {
	m := reTransfer.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, model.NewMalformedAmountError()
	}
	rest := strings.TrimSpace(m[1])
	if !reAmount.MatchString(rest) {
		return 0, model.NewMalformedAmountError()
	}
	amount, err := strconv.Atoi(rest)
	if err != nil {
		return 0, model.NewMalformedAmountError()
	}
	return amount, nil
}

// ParseBindDriver 嚴格解析綁定司機指令，回傳司機編號。
// 編號取標籤之後的剩餘字串（去除前後空白），空字串視為格式錯誤。
func ParseBindDriver(text string) (string, *model.BotError) {
	m := reBind.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", model.NewMalformedBindError()
	}
	token := strings.TrimSpace(m[1])
	if token == "" {
		return "", model.NewMalformedBindError()
	}
	return token, nil
}

// ParseAdjustment 嚴格解析補扣款指令。
// 金額必須帶明確正負號且不得為零；備註超過 30 字時拒絕，不默默截斷。
func ParseAdjustment(text string) (*AdjustmentArgs, *model.BotError) {
	m := reAdjustment.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, model.NewMalformedAdjustmentError()
	}

	delta, err := strconv.Atoi(m[2])
	if err != nil || delta == 0 {
		return nil, model.NewMalformedAdjustmentError()
	}

	note := strings.TrimSpace(m[3])
	if n := utf8.RuneCountInString(note); n > noteMaxLen {
		return nil, model.NewRemarkTooLongError(n)
	}

	return &AdjustmentArgs{RiderID: m[1], Delta: delta, Note: note}, nil
}

// ParseAvailability 嚴格解析開車時段指令。
// 日期格式為 YYYY-MM-DD；日期本身的合法性（例如 13 月）也在這裡攔下。
// 乘客數量是否必填屬於業務規則，由排班服務檢查。
func ParseAvailability(text string) (*AvailabilityArgs, *model.BotError) {
	m := reAvailability.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, model.NewMalformedAvailabilityError()
	}

	start, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return nil, model.NewMalformedAvailabilityError()
	}
	end, err := time.Parse("2006-01-02", m[2])
	if err != nil {
		return nil, model.NewMalformedAvailabilityError()
	}

	note := strings.TrimSpace(m[4])
	// 數量標籤比對失敗時會被懶惰比對吞進備註，視為格式錯誤而非默默接受。
	if strings.Contains(note, KeywordCapacity) {
		return nil, model.NewMalformedAvailabilityError()
	}

	args := &AvailabilityArgs{
		StartDate: start,
		EndDate:   end,
		IsOpen:    m[3] == KeywordOpen,
		Note:      note,
	}

	if m[5] != "" {
		capacity, err := strconv.Atoi(m[5])
		if err != nil {
			return nil, model.NewMalformedAvailabilityError()
		}
		args.Capacity = capacity
		args.HasCapacity = true
	}

	return args, nil
}
