package adjustment

import "time"

type AdjustmentResponse struct {
	ID             string `json:"id"`
	PayrollID      string `json:"payroll_id"`
	ApprovalDocID  string `json:"approval_doc_id"`
	Reason         string `json:"reason"`
	Sign           string `json:"sign"`
	Amount         int64  `json:"amount"`
	EffectiveMonth string `json:"effective_month"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

type RaiseResponse struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	ApprovalDocID  string `json:"approval_doc_id"`
	Reason         string `json:"reason"`
	BeforeSalary   int64  `json:"before_salary"`
	AfterSalary    int64  `json:"after_salary"`
	EffectiveMonth string `json:"effective_month"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

type NetAdjustmentResponse struct {
	EmployeeID  string `json:"employee_id"`
	SalaryMonth string `json:"salary_month"`
	NetAmount   int64  `json:"net_amount"`
}

func mapToAdjustmentResponse(a PayrollAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:             a.ID.String(),
		PayrollID:      a.PayrollID.String(),
		ApprovalDocID:  a.ApprovalDocID,
		Reason:         a.Reason,
		Sign:           a.Sign,
		Amount:         a.Amount,
		EffectiveMonth: a.EffectiveMonth,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

func mapToRaiseResponse(r PayrollRaise) RaiseResponse {
	return RaiseResponse{
		ID:             r.ID.String(),
		EmployeeID:     r.EmployeeID.String(),
		ApprovalDocID:  r.ApprovalDocID,
		Reason:         r.Reason,
		BeforeSalary:   r.BeforeSalary,
		AfterSalary:    r.AfterSalary,
		EffectiveMonth: r.EffectiveMonth,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}
