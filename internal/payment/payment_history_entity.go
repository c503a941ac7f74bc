package payment

import (
	"time"

	"github.com/google/uuid"
)

// PaymentHistory is written exactly once per payroll at disbursement.
type PaymentHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payment_payroll"`
	BatchID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Amount int64     `gorm:"type:bigint;not null"`
	PaidAt time.Time `gorm:"not null"`

	CreatedAt time.Time
}

func NewHistory(payrollID, batchID, employeeID uuid.UUID, amount int64, paidAt time.Time) *PaymentHistory {
	return &PaymentHistory{
		ID:         uuid.New(),
		PayrollID:  payrollID,
		BatchID:    batchID,
		EmployeeID: employeeID,
		Amount:     amount,
		PaidAt:     paidAt,
	}
}
