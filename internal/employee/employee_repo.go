package employee

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id string) (*Employee, error)
	UpdateBaseSalary(ctx context.Context, id string, baseSalary int64) error
	SelectBatchTargets(ctx context.Context) ([]BatchTarget, error)
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

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) UpdateBaseSalary(ctx context.Context, id string, baseSalary int64) error {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("base_salary", baseSalary)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SelectBatchTargets resolves the default target set for a batch run:
// every active employee, with department and name for the batch screen.
func (r *repository) SelectBatchTargets(ctx context.Context) ([]BatchTarget, error) {
	var targets []BatchTarget
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("id", "department", "name").
		Where("active = ?", true).
		Order("department ASC, name ASC").
		Find(&targets).Error
	return targets, err
}
