// Package bot 實作指令分類與派送的狀態機：
// 每個事件恰好產生一則回覆，依分類結果與身份指令表路由到對應的處理器。
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/command"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/fare"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/identity"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/line"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/metrics"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/repository"
)

// ProfileGetter 是個人資料查詢介面。
type ProfileGetter interface {
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
}

// FareService 是車費帳本介面。
type FareService interface {
	TransferFare(ctx context.Context, riderID string, amount int) (*model.Payment, error)
	FareSearch(ctx context.Context, riderID string) (*fare.Statement, error)
	FareIncome(ctx context.Context, driverID string) (*fare.IncomeReport, error)
	RecordAdjustment(ctx context.Context, driverID, riderID string, delta int, note string) (*model.User, error)
}

// ScheduleService 是開車時段介面。
type ScheduleService interface {
	SetAvailability(ctx context.Context, driverID string, args *command.AvailabilityArgs) (*model.AvailabilityWindow, bool, error)
}

// Bot 持有處理事件所需的全部依賴。
// 程序內不保存任何跨事件狀態，每個事件都獨立從儲存層解析。
type Bot struct {
	users    repository.UserRepository
	profiles ProfileGetter
	fares    FareService
	schedule ScheduleService
	metrics  metrics.Recorder

	now func() time.Time
}

// New 產生 Bot 的新實例。
func New(users repository.UserRepository, profiles ProfileGetter, fares FareService, schedule ScheduleService, recorder metrics.Recorder) *Bot {
	return &Bot{
		users:    users,
		profiles: profiles,
		fares:    fares,
		schedule: schedule,
		metrics:  recorder,
		now:      time.Now,
	}
}

// handlerFunc 處理一個已解析的指令並回傳回覆文字。
type handlerFunc func(ctx context.Context, user *model.User, cmd *command.Command) (string, error)

// HandleEvent 處理單一文字訊息事件，回傳恰好一則回覆文字。
// 回傳 error 表示系統性失敗（儲存層或外部 API），由批次層統一
// 回覆忙碌訊息；使用者可自行修正的錯誤一律轉成回覆文字。
func (b *Bot) HandleEvent(ctx context.Context, event line.Event) (string, error) {
	text := strings.TrimSpace(event.Message.Text)
	userID := event.Source.UserID

	user, err := b.users.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("查詢使用者失敗: %w", err)
	}

	cls := identity.Classify(user, text)
	switch cls.Kind {
	case identity.KindNewUser:
		return b.handleNewUser(ctx, userID, cls.DesiredRole)
	case identity.KindRoleMismatch:
		return msgRoleMismatch, nil
	case identity.KindSupportRequest:
		return msgSupport, nil
	case identity.KindUnrecognized:
		return msgUnrecognized, nil
	}

	return b.dispatch(ctx, cls.User, text)
}

// handleNewUser 建立使用者列。乘客另外附上司機名單，方便選擇綁定對象。
// 同一事件不再處理後續指令。
func (b *Bot) handleNewUser(ctx context.Context, userID string, role model.Role) (string, error) {
	profile, err := b.profiles.GetProfile(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("查詢個人資料失敗: %w", err)
	}

	now := b.now()
	user := &model.User{
		ID:          userID,
		DisplayName: profile.DisplayName,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("建立使用者失敗: %w", err)
	}

	slog.Info("已建立使用者",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)

	reply := msgRoleSwitched(profile.DisplayName, role)
	if role == model.RoleRider {
		drivers, err := b.users.ListDrivers(ctx)
		if err != nil {
			return "", fmt.Errorf("查詢司機名單失敗: %w", err)
		}
		reply += "\n\n" + msgDriverList(drivers) + "\n" + msgBindInstruction
	}
	return reply, nil
}

// dispatch 對已註冊的使用者做兩段式派送：
// 先以嚴格文法查指令表；沒有命中時，只要文字帶有本身份的指令關鍵字
// （子字串比對，不要求出現在句首），就重跑嚴格解析並回覆格式錯誤，
// 最後才落到萬用回聲回覆。未綁定司機的乘客除綁定指令外一律先攔下。
func (b *Bot) dispatch(ctx context.Context, user *model.User, text string) (string, error) {
	// 綁定閘門：優先於任何其他已辨識的指令。
	if user.Role == model.RoleRider && !user.IsBound() &&
		!strings.Contains(text, command.KeywordBindDriver) {
		drivers, err := b.users.ListDrivers(ctx)
		if err != nil {
			return "", fmt.Errorf("查詢司機名單失敗: %w", err)
		}
		return msgBindGate + "\n\n" + msgDriverList(drivers) + "\n" + msgBindInstruction, nil
	}

	cmd, perr := command.Parse(text)
	if perr == nil {
		if handler, ok := b.commandTable(user.Role)[cmd.Kind]; ok {
			b.metrics.RecordCommand(cmd.Kind.String())
			return handler(ctx, user, cmd)
		}
	}

	// 寬鬆關鍵字段：嚴格解析本身回報的錯誤直接回覆；
	// 解析落到回聲指令但文字帶有關鍵字時，重跑對應的嚴格解析取得格式錯誤。
	if b.keywordVisible(user.Role, text) {
		if perr == nil {
			perr = looseParseError(user.Role, text)
		}
		if perr != nil {
			return perr.ReplyText(), nil
		}
	}

	return msgEchoFallback(user.DisplayName, text), nil
}

// keywordVisible 回傳文字中的樣式指令關鍵字是否屬於該身份可用的指令。
func (b *Bot) keywordVisible(role model.Role, text string) bool {
	switch role {
	case model.RoleRider:
		return strings.Contains(text, command.KeywordTransferFare) ||
			strings.Contains(text, command.KeywordBindDriver)
	case model.RoleDriver:
		return strings.Contains(text, command.KeywordOpen) ||
			strings.Contains(text, command.KeywordRemark)
	}
	return false
}

// looseParseError 依文字中的關鍵字挑出對應的嚴格解析器重跑一次，
// 取得要回覆的格式錯誤。這個階段的解析不會成功：
// 成功的指令在第一階段就已命中指令表。
func looseParseError(role model.Role, text string) *model.BotError {
	switch role {
	case model.RoleRider:
		if strings.Contains(text, command.KeywordTransferFare) {
			_, err := command.ParseTransferFare(text)
			return err
		}
		_, err := command.ParseBindDriver(text)
		return err
	case model.RoleDriver:
		if strings.Contains(text, command.KeywordRemark) {
			_, err := command.ParseAdjustment(text)
			return err
		}
		_, err := command.ParseAvailability(text)
		return err
	}
	return nil
}

// commandTable 回傳身份對應的指令表：身份 → 指令種類 → 處理器。
func (b *Bot) commandTable(role model.Role) map[command.Kind]handlerFunc {
	switch role {
	case model.RoleRider:
		return map[command.Kind]handlerFunc{
			command.KindSetRole:      b.handleSetRoleAgain,
			command.KindBindDriver:   b.handleBindDriver,
			command.KindTransferFare: b.handleTransferFare,
			command.KindQueryFare:    b.handleFareSearch,
			command.KindListDrivers:  b.handleListDrivers,
			command.KindShowHelp:     b.handleShowHelp,
		}
	case model.RoleDriver:
		return map[command.Kind]handlerFunc{
			command.KindSetRole:          b.handleSetRoleAgain,
			command.KindQueryFare:        b.handleFareIncome,
			command.KindListRiders:       b.handleListRiders,
			command.KindRecordAdjustment: b.handleRecordAdjustment,
			command.KindSetAvailability:  b.handleSetAvailability,
			command.KindShowHelp:         b.handleShowHelp,
		}
	}
	return nil
}

// handleSetRoleAgain 處理與現有身份相同的身份選擇（身份不同的情況
// 在分類階段就被攔下），回覆與初次選擇一致。
func (b *Bot) handleSetRoleAgain(_ context.Context, user *model.User, cmd *command.Command) (string, error) {
	return msgRoleSwitched(user.DisplayName, cmd.Role), nil
}

// handleBindDriver 把乘客綁定到指定司機。綁定是一次性的。
func (b *Bot) handleBindDriver(ctx context.Context, user *model.User, cmd *command.Command) (string, error) {
	if user.IsBound() {
		return msgAlreadyBound, nil
	}

	driver, err := b.users.FindByID(ctx, cmd.DriverID)
	if err != nil {
		return "", fmt.Errorf("查詢司機失敗: %w", err)
	}
	if driver == nil || driver.Role != model.RoleDriver {
		return model.NewUnknownDriverError(cmd.DriverID).ReplyText(), nil
	}

	if err := b.users.BindDriver(ctx, user.ID, driver.ID); err != nil {
		return "", fmt.Errorf("綁定司機失敗: %w", err)
	}

	slog.Info("已綁定司機",
		slog.String("rider_id", user.ID),
		slog.String("driver_id", driver.ID),
	)

	return msgBound(driver.DisplayName), nil
}

// handleTransferFare 記錄乘客本月匯款。
func (b *Bot) handleTransferFare(ctx context.Context, user *model.User, cmd *command.Command) (string, error) {
	payment, err := b.fares.TransferFare(ctx, user.ID, cmd.Amount)
	if err != nil {
		var botErr *model.BotError
		if errors.As(err, &botErr) {
			return botErr.ReplyText(), nil
		}
		return "", err
	}
	return msgTransferAccepted(payment.Amount), nil
}

// handleFareSearch 回覆乘客的本月對帳單。
func (b *Bot) handleFareSearch(ctx context.Context, user *model.User, _ *command.Command) (string, error) {
	statement, err := b.fares.FareSearch(ctx, user.ID)
	if err != nil {
		return "", err
	}
	return msgStatement(statement), nil
}

// handleListDrivers 回覆目前的司機名單。
func (b *Bot) handleListDrivers(ctx context.Context, _ *model.User, _ *command.Command) (string, error) {
	drivers, err := b.users.ListDrivers(ctx)
	if err != nil {
		return "", fmt.Errorf("查詢司機名單失敗: %w", err)
	}
	return msgDriverList(drivers), nil
}

// handleListRiders 回覆司機綁定的乘客名單。
func (b *Bot) handleListRiders(ctx context.Context, user *model.User, _ *command.Command) (string, error) {
	riders, err := b.users.ListRidersOf(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("查詢乘客名單失敗: %w", err)
	}
	return msgRiderList(riders), nil
}

// handleFareIncome 回覆司機的本月收入報表。
func (b *Bot) handleFareIncome(ctx context.Context, user *model.User, _ *command.Command) (string, error) {
	report, err := b.fares.FareIncome(ctx, user.ID)
	if err != nil {
		return "", err
	}
	return msgIncomeReport(report), nil
}

// handleRecordAdjustment 登記補扣款。
func (b *Bot) handleRecordAdjustment(ctx context.Context, user *model.User, cmd *command.Command) (string, error) {
	rider, err := b.fares.RecordAdjustment(ctx, user.ID, cmd.Adjustment.RiderID, cmd.Adjustment.Delta, cmd.Adjustment.Note)
	if err != nil {
		var botErr *model.BotError
		if errors.As(err, &botErr) {
			return botErr.ReplyText(), nil
		}
		return "", err
	}
	return msgAdjustmentRecorded(rider.DisplayName, cmd.Adjustment.Delta, cmd.Adjustment.Note), nil
}

// handleSetAvailability 寫入開車時段宣告。
func (b *Bot) handleSetAvailability(ctx context.Context, user *model.User, cmd *command.Command) (string, error) {
	window, overridden, err := b.schedule.SetAvailability(ctx, user.ID, cmd.Availability)
	if err != nil {
		var botErr *model.BotError
		if errors.As(err, &botErr) {
			return botErr.ReplyText(), nil
		}
		return "", err
	}
	return msgAvailabilitySet(window, overridden), nil
}

// handleShowHelp 回覆身份對應的指令清單。
func (b *Bot) handleShowHelp(_ context.Context, user *model.User, _ *command.Command) (string, error) {
	return msgHelp(user.Role), nil
}
