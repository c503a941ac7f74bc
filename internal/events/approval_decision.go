package events

import (
	"encoding/json"
	"time"
)

const ApprovalDecisionTopic = "hr.approval.decision.v1"

const (
	DecisionCompleted = "COMPLETED"
	DecisionRejected  = "REJECTED"
)

// Template keys of the approval documents this service acts on. Every
// other key on the topic belongs to another domain and is ignored.
const (
	TemplateKeyPayrollAdjustment = "payrolladjustment"
	TemplateKeyPayrollRaise      = "payrollraise"
)

// ApprovalDecisionEvent is emitted by the approval workflow whenever a
// document reaches a terminal decision. Details carries the template's
// own payload untouched.
type ApprovalDecisionEvent struct {
	Decision    string          `json:"decision"`
	TemplateKey string          `json:"template_key"`
	DocID       string          `json:"doc_id"`
	DrafterID   string          `json:"drafter_id"`
	Details     json.RawMessage `json:"details"`
	Comment     string          `json:"comment,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// AdjustmentDetail decodes Details as a payrolladjustment payload.
func (e ApprovalDecisionEvent) AdjustmentDetail() (AdjustmentDetail, error) {
	var d AdjustmentDetail
	err := json.Unmarshal(e.Details, &d)
	return d, err
}

// RaiseDetail decodes Details as a payrollraise payload.
func (e ApprovalDecisionEvent) RaiseDetail() (RaiseDetail, error) {
	var d RaiseDetail
	err := json.Unmarshal(e.Details, &d)
	return d, err
}

// AdjustmentDetail is the payload of a payrolladjustment document.
type AdjustmentDetail struct {
	PayrollID      string `json:"payroll_id"`
	Reason         string `json:"reason"`
	Sign           string `json:"sign"`
	Amount         int64  `json:"amount"`
	EffectiveMonth string `json:"effective_month"`
}

// RaiseDetail is the payload of a payrollraise document.
type RaiseDetail struct {
	EmployeeID     string `json:"employee_id"`
	Reason         string `json:"reason"`
	BeforeSalary   int64  `json:"before_salary"`
	AfterSalary    int64  `json:"after_salary"`
	EffectiveMonth string `json:"effective_month"`
}
