package model

import "time"

// Payment 表示乘客每月一筆的整筆車費匯款。
// 同一乘客同一個月最多一筆（由月份去重規則與資料庫唯一索引共同保證）。
type Payment struct {
	ID         string
	RiderID    string
	Amount     int
	RecordedAt time.Time
	CreatedAt  time.Time
}

// Adjustment 表示司機登記的車費補收或退還。
// Delta 為帶正負號的金額：正值表示乘客當月少算要補收，負值表示多算要退還。
type Adjustment struct {
	ID         string
	RiderID    string
	Delta      int
	Note       string
	RecordedAt time.Time
	CreatedAt  time.Time
}

// AvailabilityWindow 表示司機對某個月份宣告的開車或不開車區間。
// 同一司機同一個月最多一列；同月份的新宣告一律覆蓋舊宣告。
// Capacity 僅在 IsOpen 為 true 時有值（可載乘客數）。
type AvailabilityWindow struct {
	ID        string
	DriverID  string
	Month     time.Time
	StartDate time.Time
	EndDate   time.Time
	IsOpen    bool
	Note      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
