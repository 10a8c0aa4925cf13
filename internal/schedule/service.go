// Package schedule 提供司機開車時段的驗證與寫入邏輯。
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/command"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/repository"
)

// Service 是開車時段的服務層。
type Service struct {
	windows repository.AvailabilityRepository

	// now 可在測試中替換以固定時間。
	now func() time.Time
}

// NewService 產生 Service 的新實例。
func NewService(windows repository.AvailabilityRepository) *Service {
	return &Service{
		windows: windows,
		now:     time.Now,
	}
}

// dateOf 把時間截斷為當日零點，日期比較一律在這個精度上進行。
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthOf 回傳日期所在月份的第一天。
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SetAvailability 驗證並寫入司機對某月份的開車時段宣告。
// 拒絕條件依序為：日期早於今天、起訖跨月、開車但缺少乘客數量。
// 同月已有宣告時整列覆蓋（不論新舊宣告的開車與否），回傳 overridden 為 true。
func (s *Service) SetAvailability(ctx context.Context, driverID string, args *command.AvailabilityArgs) (*model.AvailabilityWindow, bool, error) {
	today := dateOf(s.now())
	start := dateOf(args.StartDate)
	end := dateOf(args.EndDate)

	if start.Before(today) || end.Before(today) {
		return nil, false, model.NewPastDateError()
	}
	if !sameMonth(start, end) {
		return nil, false, model.NewCrossMonthRangeError()
	}
	if args.IsOpen && !args.HasCapacity {
		return nil, false, model.NewMissingCapacityError()
	}

	existing, err := s.windows.FindByDriverMonth(ctx, driverID, start)
	if err != nil {
		return nil, false, fmt.Errorf("查詢開車時段失敗: %w", err)
	}

	now := s.now()
	window := &model.AvailabilityWindow{
		ID:        uuid.NewString(),
		DriverID:  driverID,
		Month:     monthOf(start),
		StartDate: start,
		EndDate:   end,
		IsOpen:    args.IsOpen,
		Note:      args.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if args.IsOpen {
		window.Capacity = args.Capacity
	}
	if existing != nil {
		window.ID = existing.ID
		window.CreatedAt = existing.CreatedAt
	}

	if err := s.windows.Upsert(ctx, window); err != nil {
		return nil, false, fmt.Errorf("寫入開車時段失敗: %w", err)
	}

	slog.Info("已更新開車時段",
		slog.String("driver_id", driverID),
		slog.String("month", window.Month.Format("2006-01")),
		slog.Bool("is_open", window.IsOpen),
		slog.Bool("overridden", existing != nil),
	)

	return window, existing != nil, nil
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
