package batch_test

import (
	"context"
	"errors"
	"testing"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/batch"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeFiguresProvider struct {
	getBaseSalaryFn     func(ctx context.Context, employeeID string) (int64, error)
	calculateOvertimeFn func(ctx context.Context, salaryMonth, employeeID string) (int64, error)
}

func (f *fakeFiguresProvider) GetBaseSalary(ctx context.Context, employeeID string) (int64, error) {
	if f.getBaseSalaryFn != nil {
		return f.getBaseSalaryFn(ctx, employeeID)
	}
	return 0, errors.New("unexpected GetBaseSalary call")
}

func (f *fakeFiguresProvider) CalculateOvertime(ctx context.Context, salaryMonth, employeeID string) (int64, error) {
	if f.calculateOvertimeFn != nil {
		return f.calculateOvertimeFn(ctx, salaryMonth, employeeID)
	}
	return 0, errors.New("unexpected CalculateOvertime call")
}

type fakeAdjustmentQuery struct {
	sumFn func(ctx context.Context, employeeID, salaryMonth string) (int64, error)
}

func (f *fakeAdjustmentQuery) SumApprovedForEmployeeMonth(ctx context.Context, employeeID, salaryMonth string) (int64, error) {
	if f.sumFn != nil {
		return f.sumFn(ctx, employeeID, salaryMonth)
	}
	return 0, nil
}

func TestCalculator_CalculateOne(t *testing.T) {
	ctx := context.Background()

	t.Run("locked record is skipped before any provider call", func(t *testing.T) {
		deps := setupBatchServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		b := batch.NewBatch("2026-03", uuid.New())
		employeeID := uuid.New()

		providerCalled := false
		provider := &fakeFiguresProvider{
			getBaseSalaryFn: func(ctx context.Context, eid string) (int64, error) {
				providerCalled = true
				return 0, nil
			},
			calculateOvertimeFn: func(ctx context.Context, m, eid string) (int64, error) {
				providerCalled = true
				return 0, nil
			},
		}

		deps.payrollRepo.findByEmployeeAndMonthFn = func(ctx context.Context, eid, month string) (*batch.Payroll, error) {
			return &batch.Payroll{
				ID: uuid.New(), BatchID: b.ID, EmployeeID: employeeID,
				SalaryMonth: month, Status: batch.PayrollStatusConfirmed,
			}, nil
		}

		saved := false
		deps.payrollRepo.saveFn = func(ctx context.Context, p *batch.Payroll) error {
			saved = true
			return nil
		}

		calc := batch.NewCalculator(deps.db, deps.payrollRepo, provider, &fakeAdjustmentQuery{})
		outcome, err := calc.CalculateOne(ctx, b, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, batch.OutcomeSkipped, outcome)
		assert.False(t, providerCalled)
		assert.False(t, saved)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("business error records failure without item writes", func(t *testing.T) {
		deps := setupBatchServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		b := batch.NewBatch("2026-03", uuid.New())
		employeeID := uuid.New()

		provider := &fakeFiguresProvider{
			getBaseSalaryFn: func(ctx context.Context, eid string) (int64, error) {
				return 0, attendanceerrors.ErrMissingBaseSalary
			},
		}

		var savedRecord *batch.Payroll
		deps.payrollRepo.saveFn = func(ctx context.Context, p *batch.Payroll) error {
			savedRecord = p
			return nil
		}
		itemTouched := false
		deps.payrollRepo.deleteItemFn = func(ctx context.Context, pid, itemType, itemCode string) error {
			itemTouched = true
			return nil
		}
		deps.payrollRepo.createItemFn = func(ctx context.Context, item *batch.PayrollItem) error {
			itemTouched = true
			return nil
		}

		calc := batch.NewCalculator(deps.db, deps.payrollRepo, provider, &fakeAdjustmentQuery{})
		outcome, err := calc.CalculateOne(ctx, b, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, batch.OutcomeFailed, outcome)
		assert.NotNil(t, savedRecord)
		assert.Equal(t, batch.PayrollStatusFailed, savedRecord.Status)
		assert.NotNil(t, savedRecord.FailReason)
		assert.False(t, itemTouched)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success replaces the overtime item", func(t *testing.T) {
		deps := setupBatchServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		b := batch.NewBatch("2026-03", uuid.New())
		employeeID := uuid.New()

		provider := &fakeFiguresProvider{
			getBaseSalaryFn: func(ctx context.Context, eid string) (int64, error) {
				return 3000000, nil
			},
			calculateOvertimeFn: func(ctx context.Context, m, eid string) (int64, error) {
				return 75000, nil
			},
		}
		adjustments := &fakeAdjustmentQuery{
			sumFn: func(ctx context.Context, eid, month string) (int64, error) {
				assert.Equal(t, "2026-03", month)
				return -50000, nil
			},
		}

		var savedRecord *batch.Payroll
		deps.payrollRepo.saveFn = func(ctx context.Context, p *batch.Payroll) error {
			savedRecord = p
			return nil
		}

		deleted := false
		deps.payrollRepo.deleteItemFn = func(ctx context.Context, pid, itemType, itemCode string) error {
			deleted = true
			assert.Equal(t, batch.ItemTypeAllowance, itemType)
			assert.Equal(t, batch.ItemCodeOvertime, itemCode)
			return nil
		}
		var createdItem *batch.PayrollItem
		deps.payrollRepo.createItemFn = func(ctx context.Context, item *batch.PayrollItem) error {
			assert.True(t, deleted, "stale item must be removed before insert")
			createdItem = item
			return nil
		}

		calc := batch.NewCalculator(deps.db, deps.payrollRepo, provider, adjustments)
		outcome, err := calc.CalculateOne(ctx, b, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, batch.OutcomeCalculated, outcome)
		assert.Equal(t, batch.PayrollStatusCalculated, savedRecord.Status)
		assert.Equal(t, int64(3000000), savedRecord.BaseSalary)
		assert.Equal(t, int64(75000), savedRecord.OvertimeAmount)
		assert.Equal(t, int64(-50000), savedRecord.AdjustmentTotal)
		assert.Equal(t, int64(3075000), savedRecord.GrossPay)
		assert.Equal(t, int64(3025000), savedRecord.NetPay)
		assert.Nil(t, savedRecord.FailReason)

		assert.NotNil(t, createdItem)
		assert.Equal(t, int64(75000), createdItem.Amount)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("failed record recovers on recalculation", func(t *testing.T) {
		deps := setupBatchServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		b := batch.NewBatch("2026-03", uuid.New())
		employeeID := uuid.New()
		reason := "base salary is missing"

		deps.payrollRepo.findByEmployeeAndMonthFn = func(ctx context.Context, eid, month string) (*batch.Payroll, error) {
			return &batch.Payroll{
				ID: uuid.New(), BatchID: b.ID, EmployeeID: employeeID,
				SalaryMonth: month, Status: batch.PayrollStatusFailed, FailReason: &reason,
			}, nil
		}

		provider := &fakeFiguresProvider{
			getBaseSalaryFn: func(ctx context.Context, eid string) (int64, error) {
				return 3000000, nil
			},
			calculateOvertimeFn: func(ctx context.Context, m, eid string) (int64, error) {
				return 0, nil
			},
		}

		var savedRecord *batch.Payroll
		deps.payrollRepo.saveFn = func(ctx context.Context, p *batch.Payroll) error {
			savedRecord = p
			return nil
		}

		calc := batch.NewCalculator(deps.db, deps.payrollRepo, provider, &fakeAdjustmentQuery{})
		outcome, err := calc.CalculateOne(ctx, b, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, batch.OutcomeCalculated, outcome)
		assert.Equal(t, batch.PayrollStatusCalculated, savedRecord.Status)
		assert.Nil(t, savedRecord.FailReason)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("infrastructure error aborts without a failed record", func(t *testing.T) {
		deps := setupBatchServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		b := batch.NewBatch("2026-03", uuid.New())

		provider := &fakeFiguresProvider{
			getBaseSalaryFn: func(ctx context.Context, eid string) (int64, error) {
				return 0, errors.New("connection reset")
			},
		}

		saved := false
		deps.payrollRepo.saveFn = func(ctx context.Context, p *batch.Payroll) error {
			saved = true
			return nil
		}

		calc := batch.NewCalculator(deps.db, deps.payrollRepo, provider, &fakeAdjustmentQuery{})
		_, err := calc.CalculateOne(ctx, b, uuid.New().String())

		assert.Error(t, err)
		assert.False(t, saved)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestCalculator_CalculateEmployees_Isolation(t *testing.T) {
	ctx := context.Background()
	deps := setupBatchServiceTest(t)
	defer deps.db.Close()

	// success commits, business failure commits, infra error rolls back.
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, false)

	b := batch.NewBatch("2026-03", uuid.New())
	okEmployee := uuid.New().String()
	failEmployee := uuid.New().String()
	downEmployee := uuid.New().String()

	provider := &fakeFiguresProvider{
		getBaseSalaryFn: func(ctx context.Context, eid string) (int64, error) {
			switch eid {
			case failEmployee:
				return 0, attendanceerrors.ErrMissingBaseSalary
			case downEmployee:
				return 0, errors.New("db gone away")
			default:
				return 3000000, nil
			}
		},
		calculateOvertimeFn: func(ctx context.Context, m, eid string) (int64, error) {
			return 0, nil
		},
	}

	calc := batch.NewCalculator(deps.db, deps.payrollRepo, provider, &fakeAdjustmentQuery{})
	summary := calc.CalculateEmployees(ctx, b, []string{okEmployee, failEmployee, downEmployee})

	assert.Equal(t, 1, summary.Calculated)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 1, summary.Errored)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestStatusTransitions(t *testing.T) {
	t.Run("batch lifecycle is strictly forward", func(t *testing.T) {
		assert.True(t, batch.CanTransitionBatch(batch.BatchStatusReady, batch.BatchStatusCalculated))
		assert.True(t, batch.CanTransitionBatch(batch.BatchStatusCalculated, batch.BatchStatusConfirmed))
		assert.True(t, batch.CanTransitionBatch(batch.BatchStatusConfirmed, batch.BatchStatusPaid))

		assert.False(t, batch.CanTransitionBatch(batch.BatchStatusReady, batch.BatchStatusConfirmed))
		assert.False(t, batch.CanTransitionBatch(batch.BatchStatusCalculated, batch.BatchStatusPaid))
		assert.False(t, batch.CanTransitionBatch(batch.BatchStatusPaid, batch.BatchStatusReady))
		assert.False(t, batch.CanTransitionBatch(batch.BatchStatusConfirmed, batch.BatchStatusCalculated))
	})

	t.Run("calculation allowed only from ready or calculated", func(t *testing.T) {
		assert.True(t, batch.CanCalculate(batch.BatchStatusReady))
		assert.True(t, batch.CanCalculate(batch.BatchStatusCalculated))
		assert.False(t, batch.CanCalculate(batch.BatchStatusConfirmed))
		assert.False(t, batch.CanCalculate(batch.BatchStatusPaid))
	})

	t.Run("confirmed and paid records are locked", func(t *testing.T) {
		assert.True(t, batch.IsLockedStatus(batch.PayrollStatusConfirmed))
		assert.True(t, batch.IsLockedStatus(batch.PayrollStatusPaid))
		assert.False(t, batch.IsLockedStatus(batch.PayrollStatusReady))
		assert.False(t, batch.IsLockedStatus(batch.PayrollStatusCalculated))
		assert.False(t, batch.IsLockedStatus(batch.PayrollStatusFailed))
	})

	t.Run("payroll transitions honor locking", func(t *testing.T) {
		assert.True(t, batch.CanTransitionPayroll(batch.PayrollStatusFailed, batch.PayrollStatusCalculated))
		assert.True(t, batch.CanTransitionPayroll(batch.PayrollStatusCalculated, batch.PayrollStatusCalculated))
		assert.True(t, batch.CanTransitionPayroll(batch.PayrollStatusCalculated, batch.PayrollStatusConfirmed))
		assert.True(t, batch.CanTransitionPayroll(batch.PayrollStatusConfirmed, batch.PayrollStatusPaid))

		assert.False(t, batch.CanTransitionPayroll(batch.PayrollStatusConfirmed, batch.PayrollStatusCalculated))
		assert.False(t, batch.CanTransitionPayroll(batch.PayrollStatusPaid, batch.PayrollStatusCalculated))
	})
}
