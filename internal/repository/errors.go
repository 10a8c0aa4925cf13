package repository

import "errors"

// ErrDuplicateMonthlyPayment 表示同一乘客同月已有匯款列。
// 由 payments 的 (rider_id, 月份) 唯一索引觸發，
// 讓「本月尚未匯款」的檢查加寫入在並發下仍然成立。
var ErrDuplicateMonthlyPayment = errors.New("duplicate monthly payment")
