package payment

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payment_history_repo.go -destination=mock/payment_history_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *PaymentHistory) error
	FindAllByBatchID(ctx context.Context, batchID string) ([]PaymentHistory, error)
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

func (r *repository) Create(ctx context.Context, h *PaymentHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindAllByBatchID(ctx context.Context, batchID string) ([]PaymentHistory, error) {
	var rows []PaymentHistory
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("paid_at ASC").
		Find(&rows).Error
	return rows, err
}
