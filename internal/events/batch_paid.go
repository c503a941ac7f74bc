package events

import "time"

const BatchPaidTopic = "payroll.batch.paid.v1"

type BatchPaidEvent struct {
	EventType    string    `json:"event_type"`
	BatchID      string    `json:"batch_id"`
	SalaryMonth  string    `json:"salary_month"`
	PayrollCount int       `json:"payroll_count"`
	TotalNetPay  int64     `json:"total_net_pay"`
	OccurredAt   time.Time `json:"occurred_at"`
}
