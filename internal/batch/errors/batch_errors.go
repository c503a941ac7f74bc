package batcherrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidSalaryMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary month format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidBatchID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid batch id",
		http.StatusBadRequest,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrDuplicateBatch = apperror.New(
		apperror.CodeConflict,
		"a payroll batch already exists for this salary month",
		http.StatusConflict,
	)
	ErrBatchNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll batch not found",
		http.StatusNotFound,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrInvalidBatchState = apperror.New(
		apperror.CodeInvalidState,
		"operation not allowed in the batch's current status",
		http.StatusBadRequest,
	)
	ErrNoTargetEmployees = apperror.New(
		apperror.CodeBusinessRule,
		"no target employees for this batch calculation",
		http.StatusBadRequest,
	)
	ErrBatchHasFailedPayrolls = apperror.New(
		apperror.CodeInvalidState,
		"batch has failed payrolls and cannot be confirmed",
		http.StatusBadRequest,
	)
	ErrNoPayrollsInBatch = apperror.New(
		apperror.CodeInvalidState,
		"batch has no payrolls to pay",
		http.StatusBadRequest,
	)
	ErrPayrollLocked = apperror.New(
		apperror.CodeInvalidState,
		"payroll is confirmed or paid and cannot be recalculated",
		http.StatusBadRequest,
	)
)
