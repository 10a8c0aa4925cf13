// Package identity 提供傳送者分類：把外部使用者編號與當前訊息文字
// 對應到一個分類結果。分類是純函式，不產生任何副作用；
// 使用者列的建立由路由層處理。
package identity

import (
	"strings"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/command"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/model"
)

// SupportLiteral 是客服代碼。已存在的使用者輸入這個代碼時，
// 優先於其他所有指令（包含切換身份的嘗試）。
const SupportLiteral = "77"

// Kind 表示分類結果的種類。
type Kind int

const (
	// KindNewUser 表示尚未註冊的使用者選擇了身份。
	KindNewUser Kind = iota
	// KindExistingUser 表示已註冊的使用者送出一般訊息。
	KindExistingUser
	// KindRoleMismatch 表示已註冊的使用者嘗試切換為另一種身份。
	// 身份切換永遠不自動套用，必須聯繫管理員。
	KindRoleMismatch
	// KindSupportRequest 表示已註冊的使用者輸入了客服代碼。
	KindSupportRequest
	// KindUnrecognized 表示尚未註冊的使用者送出無法辨識的訊息。
	KindUnrecognized
)

// Classification 是每個事件計算一次的暫態分類結果，不落地。
type Classification struct {
	Kind        Kind
	DesiredRole model.Role  // KindNewUser 與 KindRoleMismatch 攜帶
	User        *model.User // KindExistingUser 攜帶
}

// roleLiteral 回傳文字對應的身份選擇字面指令，非字面指令時 ok 為 false。
func roleLiteral(text string) (model.Role, bool) {
	switch text {
	case command.LiteralRiderRole:
		return model.RoleRider, true
	case command.LiteralDriverRole:
		return model.RoleDriver, true
	}
	return "", false
}

// Classify 依優先順序分類傳送者，第一個符合的規則勝出：
//  1. 無使用者列且文字是身份選擇字面指令 → NewUser
//  2. 有使用者列且文字是客服代碼 → SupportRequest
//  3. 有使用者列且文字是與現有身份不同的身份選擇 → RoleMismatch
//  4. 有使用者列 → ExistingUser
//  5. 其餘 → Unrecognized
func Classify(user *model.User, text string) Classification {
	trimmed := strings.TrimSpace(text)
	role, isRoleLiteral := roleLiteral(trimmed)

	if user == nil {
		if isRoleLiteral {
			return Classification{Kind: KindNewUser, DesiredRole: role}
		}
		return Classification{Kind: KindUnrecognized}
	}

	if trimmed == SupportLiteral {
		return Classification{Kind: KindSupportRequest, User: user}
	}

	if isRoleLiteral && role != user.Role {
		return Classification{Kind: KindRoleMismatch, DesiredRole: role, User: user}
	}

	return Classification{Kind: KindExistingUser, User: user}
}
