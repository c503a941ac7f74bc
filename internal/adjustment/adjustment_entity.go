package adjustment

import (
	"time"

	"github.com/google/uuid"
)

const StatusApproved = "APPROVED"

const (
	SignPlus  = "+"
	SignMinus = "-"
)

// PayrollAdjustment is an ad-hoc pay correction written only when the
// approval workflow completes the backing document. Rows are immutable;
// they are additive inputs to future calculations, never direct edits
// of an existing payroll.
type PayrollAdjustment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ApprovalDocID string    `gorm:"type:varchar(60);not null;uniqueIndex:uq_adjustment_doc"`

	Reason         string `gorm:"type:text;not null"`
	Sign           string `gorm:"type:varchar(1);not null"`
	Amount         int64  `gorm:"type:bigint;not null;default:0"`
	EffectiveMonth string `gorm:"type:varchar(7);not null;index"`
	Status         string `gorm:"type:varchar(20);not null;default:'APPROVED'"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignedAmount folds the sign into the stored magnitude.
func (a PayrollAdjustment) SignedAmount() int64 {
	if a.Sign == SignMinus {
		return -a.Amount
	}
	return a.Amount
}

// PayrollRaise is a standing base-salary change. Applying one also
// updates the employee's persisted base salary, the only place approval
// processing reaches outside its own tables.
type PayrollRaise struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:uq_raise_employee_month,unique"`
	ApprovalDocID string    `gorm:"type:varchar(60);not null;uniqueIndex:uq_raise_doc"`

	Reason         string `gorm:"type:text;not null"`
	BeforeSalary   int64  `gorm:"type:bigint;not null"`
	AfterSalary    int64  `gorm:"type:bigint;not null"`
	EffectiveMonth string `gorm:"type:varchar(7);not null;index:uq_raise_employee_month,unique"`
	Status         string `gorm:"type:varchar(20);not null;default:'APPROVED'"`

	RequestedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
