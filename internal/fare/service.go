// Package fare 提供車費帳本的領域邏輯：
// 月費匯款的月份去重、對帳摺疊與司機收入彙總。
package fare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/repository"
)

// Service 是車費帳本的服務層。
type Service struct {
	users       repository.UserRepository
	payments    repository.PaymentRepository
	adjustments repository.AdjustmentRepository

	// now 可在測試中替換以固定時間。
	now func() time.Time
}

// NewService 產生 Service 的新實例。
func NewService(
	users repository.UserRepository,
	payments repository.PaymentRepository,
	adjustments repository.AdjustmentRepository,
) *Service {
	return &Service{
		users:       users,
		payments:    payments,
		adjustments: adjustments,
		now:         time.Now,
	}
}

// sameMonth 回傳兩個日期是否落在同一個年月。
func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// TransferFare 記錄乘客本月的整筆車費匯款。
// 最近一筆匯款落在本月時拒絕（月份防抖，不是流水帳）；
// 先查後寫的競爭由儲存層的唯一索引裁決，攔到時同樣回已匯款拒絕。
func (s *Service) TransferFare(ctx context.Context, riderID string, amount int) (*model.Payment, error) {
	today := s.now()

	latest, err := s.payments.FindLatestByRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("查詢匯款紀錄失敗: %w", err)
	}
	if latest != nil && sameMonth(latest.RecordedAt, today) {
		return nil, model.NewAlreadyPaidError(latest.Amount)
	}

	payment := &model.Payment{
		ID:         uuid.NewString(),
		RiderID:    riderID,
		Amount:     amount,
		RecordedAt: today,
		CreatedAt:  today,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		if err == repository.ErrDuplicateMonthlyPayment {
			// 兩筆並發匯款只有一筆能寫入，輸的那筆改用已寫入的金額回覆。
			if committed, ferr := s.payments.FindLatestByRider(ctx, riderID); ferr == nil && committed != nil {
				return nil, model.NewAlreadyPaidError(committed.Amount)
			}
			return nil, model.NewAlreadyPaidError(amount)
		}
		return nil, fmt.Errorf("寫入匯款紀錄失敗: %w", err)
	}

	slog.Info("已記錄車費匯款",
		slog.String("rider_id", riderID),
		slog.Int("amount", amount),
	)

	return payment, nil
}

// StatementLine 是對帳單的一行：套用某筆補扣款前後的累計金額。
type StatementLine struct {
	Previous int
	Delta    int
	Total    int
	Note     string
}

// Statement 是乘客的本月對帳結果。
// Payment 為 nil 表示查無匯款紀錄。
type Statement struct {
	Payment       *model.Payment
	Lines         []StatementLine
	NetAdjustment int
}

// FareSearch 計算乘客的對帳單：以最近一筆匯款金額為起點，
// 依時間順序由左至右摺疊本月全部補扣款。
// 摺疊嚴格保序，因為每一行都要顯示套用該筆調整「之前」的累計金額。
func (s *Service) FareSearch(ctx context.Context, riderID string) (*Statement, error) {
	payment, err := s.payments.FindLatestByRider(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("查詢匯款紀錄失敗: %w", err)
	}
	if payment == nil {
		return &Statement{}, nil
	}

	adjustments, err := s.adjustments.ListByRiderInMonth(ctx, riderID, s.now())
	if err != nil {
		return nil, fmt.Errorf("查詢補扣款紀錄失敗: %w", err)
	}

	statement := &Statement{Payment: payment}
	total := payment.Amount
	for _, adj := range adjustments {
		line := StatementLine{
			Previous: total,
			Delta:    adj.Delta,
			Total:    total + adj.Delta,
			Note:     adj.Note,
		}
		total = line.Total
		statement.Lines = append(statement.Lines, line)
		statement.NetAdjustment += adj.Delta
	}

	return statement, nil
}

// IncomeRow 是司機收入報表中單一乘客的資料。
// HasRecord 為 false 表示該乘客本月既無匯款也無補扣款，
// 列入報表提示但不計入收入總額。
type IncomeRow struct {
	Rider         *model.User
	PaymentAmount int
	AdjustmentSum int
	HasRecord     bool
}

// IncomeReport 是司機的本月收入報表。
// Total 只加總匯款金額：補扣款沖銷的是乘客的餘額，不是司機的實收。
type IncomeReport struct {
	Rows  []IncomeRow
	Total int
}

// FareIncome 對司機綁定的每位乘客計算本月匯款金額與補扣款合計，
// 彙總為收入報表。
func (s *Service) FareIncome(ctx context.Context, driverID string) (*IncomeReport, error) {
	riders, err := s.users.ListRidersOf(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("查詢乘客名單失敗: %w", err)
	}

	today := s.now()
	report := &IncomeReport{}
	for _, rider := range riders {
		row := IncomeRow{Rider: rider}

		payment, err := s.payments.FindLatestByRider(ctx, rider.ID)
		if err != nil {
			return nil, fmt.Errorf("查詢匯款紀錄失敗: %w", err)
		}
		if payment != nil && sameMonth(payment.RecordedAt, today) {
			row.PaymentAmount = payment.Amount
			row.HasRecord = true
		}

		adjustments, err := s.adjustments.ListByRiderInMonth(ctx, rider.ID, today)
		if err != nil {
			return nil, fmt.Errorf("查詢補扣款紀錄失敗: %w", err)
		}
		for _, adj := range adjustments {
			row.AdjustmentSum += adj.Delta
		}
		if len(adjustments) > 0 {
			row.HasRecord = true
		}

		report.Total += row.PaymentAmount
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

// RecordAdjustment 登記司機對綁定乘客的補扣款。
// 乘客不在司機的綁定名單時回傳 UnknownRider 拒絕。
func (s *Service) RecordAdjustment(ctx context.Context, driverID, riderID string, delta int, note string) (*model.User, error) {
	riders, err := s.users.ListRidersOf(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("查詢乘客名單失敗: %w", err)
	}

	var rider *model.User
	for _, r := range riders {
		if r.ID == riderID {
			rider = r
			break
		}
	}
	if rider == nil {
		return nil, model.NewUnknownRiderError(riderID)
	}

	today := s.now()
	adjustment := &model.Adjustment{
		ID:         uuid.NewString(),
		RiderID:    riderID,
		Delta:      delta,
		Note:       note,
		RecordedAt: today,
		CreatedAt:  today,
	}
	if err := s.adjustments.Create(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("寫入補扣款紀錄失敗: %w", err)
	}

	slog.Info("已登記補扣款",
		slog.String("driver_id", driverID),
		slog.String("rider_id", riderID),
		slog.Int("delta", delta),
	)

	return rider, nil
}
