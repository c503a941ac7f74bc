package adjustment

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateAdjustment(ctx context.Context, a *PayrollAdjustment) error
	CreateRaise(ctx context.Context, r *PayrollRaise) error
	FindAdjustmentsByPayroll(ctx context.Context, payrollID string) ([]PayrollAdjustment, error)
	FindRaisesByEmployee(ctx context.Context, employeeID string) ([]PayrollRaise, error)
	SumApprovedForEmployeeMonth(ctx context.Context, employeeID, salaryMonth string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GORMWithTx(r.db, tx)}
}

func (r *repository) CreateAdjustment(ctx context.Context, a *PayrollAdjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) CreateRaise(ctx context.Context, raise *PayrollRaise) error {
	return r.db.WithContext(ctx).Create(raise).Error
}

func (r *repository) FindAdjustmentsByPayroll(ctx context.Context, payrollID string) ([]PayrollAdjustment, error) {
	var list []PayrollAdjustment
	err := r.db.WithContext(ctx).
		Where("payroll_id = ?", payrollID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindRaisesByEmployee(ctx context.Context, employeeID string) ([]PayrollRaise, error) {
	var list []PayrollRaise
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("effective_month DESC").
		Find(&list).Error
	return list, err
}

// SumApprovedForEmployeeMonth nets every approved adjustment effective in
// the given month for the given employee. The employee link goes through
// the referenced payroll row.
func (r *repository) SumApprovedForEmployeeMonth(ctx context.Context, employeeID, salaryMonth string) (int64, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&PayrollAdjustment{}).
		Select("COALESCE(SUM(CASE WHEN payroll_adjustments.sign = '-' THEN -payroll_adjustments.amount ELSE payroll_adjustments.amount END), 0)").
		Joins("JOIN payrolls ON payrolls.id = payroll_adjustments.payroll_id").
		Where("payrolls.employee_id = ?", employeeID).
		Where("payroll_adjustments.effective_month = ?", salaryMonth).
		Where("payroll_adjustments.status = ?", StatusApproved).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
