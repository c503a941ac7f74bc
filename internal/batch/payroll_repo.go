package batch

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type PayrollRepository interface {
	WithTx(tx *sql.Tx) PayrollRepository
	Save(ctx context.Context, p *Payroll) error
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByEmployeeAndMonth(ctx context.Context, employeeID, salaryMonth string) (*Payroll, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindAllByBatchID(ctx context.Context, batchID string) ([]Payroll, error)
	ExistsByBatchIDAndStatus(ctx context.Context, batchID, status string) (bool, error)
	LockAllByBatchID(ctx context.Context, batchID string) error
	MarkAllPaidByBatchID(ctx context.Context, batchID string) error
	DeleteItem(ctx context.Context, payrollID, itemType, itemCode string) error
	CreateItem(ctx context.Context, item *PayrollItem) error
	FindItems(ctx context.Context, payrollID string) ([]PayrollItem, error)
}

type payrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) PayrollRepository {
	return &payrollRepository{db: db}
}

// WithTx returns a repository whose statements run on tx, so writes
// commit and roll back with the caller's transaction.
func (r *payrollRepository) WithTx(tx *sql.Tx) PayrollRepository {
	return &payrollRepository{db: connection.GORMWithTx(r.db, tx)}
}

func (r *payrollRepository) Save(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *payrollRepository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *payrollRepository) FindByEmployeeAndMonth(ctx context.Context, employeeID, salaryMonth string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("salary_month = ?", salaryMonth).
		First(&p).Error
	return &p, err
}

func (r *payrollRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *payrollRepository) FindAllByBatchID(ctx context.Context, batchID string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *payrollRepository) ExistsByBatchIDAndStatus(ctx context.Context, batchID, status string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("batch_id = ?", batchID).
		Where("status = ?", status).
		Count(&count).Error
	return count > 0, err
}

// LockAllByBatchID flips every record of the batch to CONFIRMED. Runs
// inside the confirm transaction so the failed-records check and the
// lock are one atomic snapshot.
func (r *payrollRepository) LockAllByBatchID(ctx context.Context, batchID string) error {
	return r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("batch_id = ?", batchID).
		Update("status", PayrollStatusConfirmed).Error
}

func (r *payrollRepository) MarkAllPaidByBatchID(ctx context.Context, batchID string) error {
	return r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("batch_id = ?", batchID).
		Where("status = ?", PayrollStatusConfirmed).
		Update("status", PayrollStatusPaid).Error
}

func (r *payrollRepository) DeleteItem(ctx context.Context, payrollID, itemType, itemCode string) error {
	return r.db.WithContext(ctx).
		Where("payroll_id = ?", payrollID).
		Where("item_type = ?", itemType).
		Where("item_code = ?", itemCode).
		Delete(&PayrollItem{}).Error
}

func (r *payrollRepository) CreateItem(ctx context.Context, item *PayrollItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *payrollRepository) FindItems(ctx context.Context, payrollID string) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.db.WithContext(ctx).
		Where("payroll_id = ?", payrollID).
		Order("item_type ASC, item_code ASC").
		Find(&items).Error
	return items, err
}
