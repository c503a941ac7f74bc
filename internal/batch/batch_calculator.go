package batch

import (
	"context"
	"database/sql"
	"errors"

	"go-payroll/internal/attendance"
	batcherrors "go-payroll/internal/batch/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CalcOutcome string

const (
	OutcomeCalculated CalcOutcome = "CALCULATED"
	OutcomeFailed     CalcOutcome = "FAILED"
	OutcomeSkipped    CalcOutcome = "SKIPPED"
)

// CalculationSummary aggregates one batch run. Failed counts records
// saved with FAILED status; Errored counts employees whose transaction
// could not even commit (infrastructure faults, retried on the next run).
type CalculationSummary struct {
	Calculated int `json:"calculated"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
	Errored    int `json:"errored"`
}

// AdjustmentQuery is the approved-adjustment aggregate consumed at
// calculation time. Satisfied by the adjustment repository.
type AdjustmentQuery interface {
	SumApprovedForEmployeeMonth(ctx context.Context, employeeID, salaryMonth string) (int64, error)
}

//go:generate mockgen -source=batch_calculator.go -destination=mock/batch_calculator_mock.go -package=mock
type Calculator interface {
	CalculateEmployees(ctx context.Context, b *PayrollBatch, employeeIDs []string) CalculationSummary
	CalculateOne(ctx context.Context, b *PayrollBatch, employeeID string) (CalcOutcome, error)
}

type calculator struct {
	db          *sql.DB
	payrollRepo PayrollRepository
	provider    attendance.Service
	adjustments AdjustmentQuery
}

func NewCalculator(
	db *sql.DB,
	payrollRepo PayrollRepository,
	provider attendance.Service,
	adjustments AdjustmentQuery,
) Calculator {
	return &calculator{
		db:          db,
		payrollRepo: payrollRepo,
		provider:    provider,
		adjustments: adjustments,
	}
}

// CalculateEmployees runs one isolated calculation per employee. A
// failure for one employee never prevents the rest of the batch from
// being processed; no business error escapes this loop.
func (c *calculator) CalculateEmployees(ctx context.Context, b *PayrollBatch, employeeIDs []string) CalculationSummary {
	log := zap.L().Named("batch.calculator")
	var summary CalculationSummary

	for _, employeeID := range employeeIDs {
		outcome, err := c.CalculateOne(ctx, b, employeeID)
		if err != nil {
			summary.Errored++
			log.Error("employee calculation aborted",
				zap.String("batch_id", b.ID.String()),
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			continue
		}

		switch outcome {
		case OutcomeCalculated:
			summary.Calculated++
		case OutcomeFailed:
			summary.Failed++
		case OutcomeSkipped:
			summary.Skipped++
		}
	}

	return summary
}

// CalculateOne computes one employee's payroll in its own transaction.
// Locked records are skipped before any provider call or write, so
// re-running a batch never mutates finalized pay.
func (c *calculator) CalculateOne(ctx context.Context, b *PayrollBatch, employeeID string) (CalcOutcome, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return "", batcherrors.ErrInvalidEmployeeID
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	qtx := c.payrollRepo.WithTx(tx)

	p, err := qtx.FindByEmployeeAndMonth(ctx, employeeID, b.SalaryMonth)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}
		p = ReadyPayroll(employeeUUID, b)
	}

	if p.IsLocked() {
		return OutcomeSkipped, nil
	}

	baseSalary, overtime, adjustment, calcErr := c.figures(ctx, b.SalaryMonth, employeeID)
	if calcErr != nil {
		var appErr *apperror.AppError
		if !errors.As(calcErr, &appErr) {
			return "", calcErr
		}

		// Recognized business-rule violation: record it and keep the
		// batch running. Existing items are left untouched.
		if err := p.MarkFailed(appErr.Message); err != nil {
			return "", err
		}
		if err := qtx.Save(ctx, p); err != nil {
			return "", err
		}
		if err := tx.Commit(); err != nil {
			return "", err
		}
		return OutcomeFailed, nil
	}

	if err := p.ApplyCalculation(baseSalary, overtime, adjustment); err != nil {
		return "", err
	}
	if err := qtx.Save(ctx, p); err != nil {
		return "", err
	}

	// Delete-then-insert keeps the OVERTIME item unique across re-runs.
	if err := qtx.DeleteItem(ctx, p.ID.String(), ItemTypeAllowance, ItemCodeOvertime); err != nil {
		return "", err
	}
	if err := qtx.CreateItem(ctx, OvertimeItem(p.ID, overtime)); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return OutcomeCalculated, nil
}

func (c *calculator) figures(ctx context.Context, salaryMonth, employeeID string) (baseSalary, overtime, adjustment int64, err error) {
	baseSalary, err = c.provider.GetBaseSalary(ctx, employeeID)
	if err != nil {
		return 0, 0, 0, err
	}

	overtime, err = c.provider.CalculateOvertime(ctx, salaryMonth, employeeID)
	if err != nil {
		return 0, 0, 0, err
	}

	adjustment, err = c.adjustments.SumApprovedForEmployeeMonth(ctx, employeeID, salaryMonth)
	if err != nil {
		return 0, 0, 0, err
	}

	return baseSalary, overtime, adjustment, nil
}
