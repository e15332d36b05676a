package model

import (
	"encoding/json"
	baseModel "course_mall/pkg/model"
)

// 一次对账/回调的结果
const (
	OutcomePaid          = "paid"
	OutcomeAlreadyPaid   = "already_paid"
	OutcomePending       = "pending"
	OutcomeFailed        = "failed"
	OutcomeAlreadyFailed = "already_failed"
)

// Attempt 支付渠道交互流水，只追加
type Attempt struct {
	baseModel.Record
	OrderNo     string          `gorm:"size:64;index;not null" json:"orderNo"`
	Channel     string          `gorm:"size:20;not null" json:"channel"`
	Reference   string          `gorm:"size:255" json:"reference"` // 渠道侧会话/订单ID
	Result      string          `gorm:"size:20;not null" json:"result"`
	ExtraParams json.RawMessage `gorm:"type:jsonb" json:"extraParams,omitempty"`
}

func (Attempt) TableName() string { return "payment_attempts" }

// Result 对账结果
type Result struct {
	OrderNo       string `json:"orderNo"`
	Outcome       string `json:"outcome"`
	PaymentStatus string `json:"paymentStatus"`
	Enrollments   int    `json:"enrollments"`
}
