package batch

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=batch_repo.go -destination=mock/batch_repo_mock.go -package=mock
type BatchRepository interface {
	WithTx(tx *sql.Tx) BatchRepository
	Create(ctx context.Context, b *PayrollBatch) error
	FindByID(ctx context.Context, id string) (*PayrollBatch, error)
	FindAll(ctx context.Context) ([]PayrollBatch, error)
	ExistsBySalaryMonth(ctx context.Context, salaryMonth string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) WithTx(tx *sql.Tx) BatchRepository {
	return &batchRepository{db: connection.GORMWithTx(r.db, tx)}
}

func (r *batchRepository) Create(ctx context.Context, b *PayrollBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *batchRepository) FindByID(ctx context.Context, id string) (*PayrollBatch, error) {
	var b PayrollBatch
	err := r.db.WithContext(ctx).
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *batchRepository) FindAll(ctx context.Context) ([]PayrollBatch, error) {
	var batches []PayrollBatch
	err := r.db.WithContext(ctx).
		Order("salary_month DESC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepository) ExistsBySalaryMonth(ctx context.Context, salaryMonth string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollBatch{}).
		Where("salary_month = ?", salaryMonth).
		Count(&count).Error
	return count > 0, err
}

func (r *batchRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&PayrollBatch{}).
		Where("id = ?", id).
		Update("status", status).Error
}
