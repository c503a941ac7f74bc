package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	SumOvertimeMinutes(ctx context.Context, employeeID string, from, to time.Time) (int64, error)
	MinOvertimeMinutes(ctx context.Context, employeeID string, from, to time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SumOvertimeMinutes(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("employee_id = ?", employeeID).
		Where("work_date >= ? AND work_date < ?", from, to).
		Select("COALESCE(SUM(overtime_minutes), 0)").
		Scan(&total).Error
	return total, err
}

// MinOvertimeMinutes exposes the smallest per-day value in the range so
// the provider can detect corrupted rows before summing them into pay.
func (r *repository) MinOvertimeMinutes(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	var min int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("employee_id = ?", employeeID).
		Where("work_date >= ? AND work_date < ?", from, to).
		Select("COALESCE(MIN(overtime_minutes), 0)").
		Scan(&min).Error
	return min, err
}
