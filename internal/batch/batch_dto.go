package batch

import "time"

type CreateBatchRequest struct {
	SalaryMonth string `json:"salary_month" binding:"required"`
}

type CalculateRequest struct {
	// Empty means "resolve the full target set".
	EmployeeIDs []string `json:"employee_ids"`
}

type BatchResponse struct {
	ID          string `json:"id"`
	SalaryMonth string `json:"salary_month"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

type TargetEmployeeResponse struct {
	EmployeeID string `json:"employee_id"`
	Department string `json:"department"`
	Name       string `json:"name"`
}

type PayrollResponse struct {
	ID              string  `json:"id"`
	BatchID         string  `json:"batch_id"`
	EmployeeID      string  `json:"employee_id"`
	SalaryMonth     string  `json:"salary_month"`
	BaseSalary      int64   `json:"base_salary"`
	OvertimeAmount  int64   `json:"overtime_amount"`
	AdjustmentTotal int64   `json:"adjustment_total"`
	GrossPay        int64   `json:"gross_pay"`
	NetPay          int64   `json:"net_pay"`
	Status          string  `json:"status"`
	FailReason      *string `json:"fail_reason,omitempty"`
}

type PayrollItemResponse struct {
	ItemType string `json:"item_type"`
	ItemCode string `json:"item_code"`
	Amount   int64  `json:"amount"`
}

type CalculateResponse struct {
	BatchID     string             `json:"batch_id"`
	SalaryMonth string             `json:"salary_month"`
	Status      string             `json:"status"`
	Summary     CalculationSummary `json:"summary"`
}

func mapToBatchResponse(b PayrollBatch) BatchResponse {
	return BatchResponse{
		ID:          b.ID.String(),
		SalaryMonth: b.SalaryMonth,
		Status:      b.Status,
		CreatedBy:   b.CreatedBy.String(),
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

func mapToPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:              p.ID.String(),
		BatchID:         p.BatchID.String(),
		EmployeeID:      p.EmployeeID.String(),
		SalaryMonth:     p.SalaryMonth,
		BaseSalary:      p.BaseSalary,
		OvertimeAmount:  p.OvertimeAmount,
		AdjustmentTotal: p.AdjustmentTotal,
		GrossPay:        p.GrossPay,
		NetPay:          p.NetPay,
		Status:          p.Status,
		FailReason:      p.FailReason,
	}
}
