package attendance

import (
	"context"
	"math"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/employee"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock

// Service is the attendance-side figures provider for payroll
// calculation. Failures it returns are business-rule violations the
// calculation unit records as FAILED instead of propagating.
type Service interface {
	GetBaseSalary(ctx context.Context, employeeID string) (int64, error)
	CalculateOvertime(ctx context.Context, salaryMonth, employeeID string) (int64, error)
}

type service struct {
	employeeRepo employee.Repository
	repo         Repository
}

func NewService(employeeRepo employee.Repository, repo Repository) Service {
	return &service{employeeRepo: employeeRepo, repo: repo}
}

func (s *service) GetBaseSalary(ctx context.Context, employeeID string) (int64, error) {
	emp, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if emp.BaseSalary <= 0 {
		return 0, attendanceerrors.ErrMissingBaseSalary
	}
	return emp.BaseSalary, nil
}

func (s *service) CalculateOvertime(ctx context.Context, salaryMonth, employeeID string) (int64, error) {
	from, to, err := monthRange(salaryMonth)
	if err != nil {
		return 0, err
	}

	emp, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if emp.OvertimeRate <= 0 {
		return 0, attendanceerrors.ErrMissingOvertimeRate
	}

	min, err := s.repo.MinOvertimeMinutes(ctx, employeeID, from, to)
	if err != nil {
		return 0, err
	}
	if min < 0 {
		return 0, attendanceerrors.ErrInconsistentAttendance
	}

	minutes, err := s.repo.SumOvertimeMinutes(ctx, employeeID, from, to)
	if err != nil {
		return 0, err
	}

	return OvertimePay(minutes, emp.OvertimeRate), nil
}

// OvertimeHours converts worked minutes to hours rounded half-up to one
// decimal place (75 minutes -> 1.3h). Rounding happens before the rate
// multiplication to match historical payslips.
func OvertimeHours(minutes int64) float64 {
	return math.Round(float64(minutes)/60.0*10) / 10
}

func OvertimePay(minutes, hourlyRate int64) int64 {
	return int64(math.Round(OvertimeHours(minutes) * float64(hourlyRate)))
}

func monthRange(salaryMonth string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01", salaryMonth)
	if err != nil {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidSalaryMonth
	}
	return from, from.AddDate(0, 1, 0), nil
}
