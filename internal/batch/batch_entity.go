package batch

import (
	"time"

	batcherrors "go-payroll/internal/batch/errors"

	"github.com/google/uuid"
)

// PayrollBatch is one payroll run for exactly one salary month. Batches
// are never deleted once created; they are the audit trail of every run.
type PayrollBatch struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryMonth string    `gorm:"type:varchar(7);not null;uniqueIndex:uq_payroll_batch_month"`
	Status      string    `gorm:"type:varchar(20);not null;default:'READY';index"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBatch(salaryMonth string, createdBy uuid.UUID) *PayrollBatch {
	return &PayrollBatch{
		ID:          uuid.New(),
		SalaryMonth: salaryMonth,
		Status:      BatchStatusReady,
		CreatedBy:   createdBy,
	}
}

func (b *PayrollBatch) TransitionTo(status string) error {
	if !CanTransitionBatch(b.Status, status) {
		return batcherrors.ErrInvalidBatchState
	}
	b.Status = status
	return nil
}

// Payroll is one employee's computation result within a batch. The row
// is created lazily on the first calculation attempt for that employee
// and month, and becomes immutable once its status is CONFIRMED or PAID.
type Payroll struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_employee_month,unique"`

	// Denormalized from the batch so adjustment aggregates and re-runs
	// can resolve a record without joining batches.
	SalaryMonth string `gorm:"type:varchar(7);not null;index:idx_payroll_employee_month,unique"`

	BaseSalary      int64 `gorm:"type:bigint;not null;default:0"`
	OvertimeAmount  int64 `gorm:"type:bigint;not null;default:0"`
	AdjustmentTotal int64 `gorm:"type:bigint;not null;default:0"`
	GrossPay        int64 `gorm:"type:bigint;not null;default:0"`
	NetPay          int64 `gorm:"type:bigint;not null;default:0"`

	Status     string  `gorm:"type:varchar(20);not null;default:'READY';index"`
	FailReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []PayrollItem `gorm:"foreignKey:PayrollID"`
}

func ReadyPayroll(employeeID uuid.UUID, batch *PayrollBatch) *Payroll {
	return &Payroll{
		ID:          uuid.New(),
		BatchID:     batch.ID,
		EmployeeID:  employeeID,
		SalaryMonth: batch.SalaryMonth,
		Status:      PayrollStatusReady,
	}
}

func (p *Payroll) IsLocked() bool {
	return IsLockedStatus(p.Status)
}

// ApplyCalculation overwrites the base figures of an unlocked record.
func (p *Payroll) ApplyCalculation(baseSalary, overtimeAmount, adjustmentTotal int64) error {
	if !CanTransitionPayroll(p.Status, PayrollStatusCalculated) {
		return batcherrors.ErrPayrollLocked
	}
	p.BaseSalary = baseSalary
	p.OvertimeAmount = overtimeAmount
	p.AdjustmentTotal = adjustmentTotal
	p.GrossPay = baseSalary + overtimeAmount
	p.NetPay = p.GrossPay + adjustmentTotal
	p.Status = PayrollStatusCalculated
	p.FailReason = nil
	return nil
}

// MarkFailed records a calculation failure without touching the totals
// or line items already on the record.
func (p *Payroll) MarkFailed(reason string) error {
	if !CanTransitionPayroll(p.Status, PayrollStatusFailed) {
		return batcherrors.ErrPayrollLocked
	}
	p.Status = PayrollStatusFailed
	p.FailReason = &reason
	return nil
}

// PayrollItem is an itemized allowance or deduction on a record. At most
// one item exists per (payroll, type, code); recalculation deletes and
// reinserts rather than appending.
type PayrollItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID uuid.UUID `gorm:"type:uuid;not null;index:idx_item_type_code,unique"`
	ItemType  string    `gorm:"type:varchar(20);not null;index:idx_item_type_code,unique"`
	ItemCode  string    `gorm:"type:varchar(40);not null;index:idx_item_type_code,unique"`
	Amount    int64     `gorm:"type:bigint;not null;default:0"`
	CreatedAt time.Time
}

func OvertimeItem(payrollID uuid.UUID, amount int64) *PayrollItem {
	return &PayrollItem{
		ID:        uuid.New(),
		PayrollID: payrollID,
		ItemType:  ItemTypeAllowance,
		ItemCode:  ItemCodeOvertime,
		Amount:    amount,
	}
}
