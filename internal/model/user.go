// Package model 定義領域模型。
package model

import "time"

// Role 表示使用者在共乘帳本中的身份。
type Role string

const (
	// RoleRider 是乘客身份，付車費並可綁定一位司機。
	RoleRider Role = "rider"
	// RoleDriver 是司機身份，向綁定的乘客收取車費並登記補扣款。
	RoleDriver Role = "driver"
)

// User 表示一位 LINE 使用者。
// ID 為 LINE 平台的 userId，建立後不可變。
// BoundDriverID 僅乘客使用，由綁定司機指令設定一次，沒有解除綁定的操作。
type User struct {
	ID            string
	DisplayName   string
	Role          Role
	BoundDriverID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsBound 回傳乘客是否已綁定司機。
func (u *User) IsBound() bool {
	return u.BoundDriverID != ""
}
