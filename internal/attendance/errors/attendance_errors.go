package attendanceerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrMissingBaseSalary = apperror.New(
		apperror.CodeBusinessRule,
		"employee has no base salary configured",
		http.StatusUnprocessableEntity,
	)
	ErrMissingOvertimeRate = apperror.New(
		apperror.CodeBusinessRule,
		"employee has no overtime rate configured",
		http.StatusUnprocessableEntity,
	)
	ErrInconsistentAttendance = apperror.New(
		apperror.CodeBusinessRule,
		"attendance data for the month is inconsistent",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidSalaryMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary month format, expected YYYY-MM",
		http.StatusBadRequest,
	)
)
