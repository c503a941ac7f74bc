package adjustmenterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidApprovalDetail = apperror.New(
		apperror.CodeInvalidInput,
		"approval document detail payload is invalid",
		http.StatusBadRequest,
	)
	ErrInvalidSign = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment sign must be + or -",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective month format, expected YYYY-MM",
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
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrRaiseMonthAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a raise already exists for this employee and effective month",
		http.StatusConflict,
	)
	ErrAdjustmentDocAlreadyApplied = apperror.New(
		apperror.CodeConflict,
		"this approval document was already applied",
		http.StatusConflict,
	)
)
