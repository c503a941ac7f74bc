package adjustment_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-payroll/internal/adjustment"
	adjustmenterrors "go-payroll/internal/adjustment/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAdjustmentRepository struct {
	withTxFn                   func(tx *sql.Tx) adjustment.Repository
	createAdjustmentFn         func(ctx context.Context, a *adjustment.PayrollAdjustment) error
	createRaiseFn              func(ctx context.Context, r *adjustment.PayrollRaise) error
	findAdjustmentsByPayrollFn func(ctx context.Context, payrollID string) ([]adjustment.PayrollAdjustment, error)
	findRaisesByEmployeeFn     func(ctx context.Context, employeeID string) ([]adjustment.PayrollRaise, error)
	sumApprovedFn              func(ctx context.Context, employeeID, salaryMonth string) (int64, error)
}

func (f *fakeAdjustmentRepository) WithTx(tx *sql.Tx) adjustment.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAdjustmentRepository) CreateAdjustment(ctx context.Context, a *adjustment.PayrollAdjustment) error {
	if f.createAdjustmentFn != nil {
		return f.createAdjustmentFn(ctx, a)
	}
	return nil
}

func (f *fakeAdjustmentRepository) CreateRaise(ctx context.Context, r *adjustment.PayrollRaise) error {
	if f.createRaiseFn != nil {
		return f.createRaiseFn(ctx, r)
	}
	return nil
}

func (f *fakeAdjustmentRepository) FindAdjustmentsByPayroll(ctx context.Context, payrollID string) ([]adjustment.PayrollAdjustment, error) {
	if f.findAdjustmentsByPayrollFn != nil {
		return f.findAdjustmentsByPayrollFn(ctx, payrollID)
	}
	return nil, nil
}

func (f *fakeAdjustmentRepository) FindRaisesByEmployee(ctx context.Context, employeeID string) ([]adjustment.PayrollRaise, error) {
	if f.findRaisesByEmployeeFn != nil {
		return f.findRaisesByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeAdjustmentRepository) SumApprovedForEmployeeMonth(ctx context.Context, employeeID, salaryMonth string) (int64, error) {
	if f.sumApprovedFn != nil {
		return f.sumApprovedFn(ctx, employeeID, salaryMonth)
	}
	return 0, nil
}

type fakeEmployeeRepository struct {
	updateBaseSalaryFn func(ctx context.Context, id string, baseSalary int64) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) UpdateBaseSalary(ctx context.Context, id string, baseSalary int64) error {
	if f.updateBaseSalaryFn != nil {
		return f.updateBaseSalaryFn(ctx, id, baseSalary)
	}
	return nil
}

func (f *fakeEmployeeRepository) SelectBatchTargets(ctx context.Context) ([]employee.BatchTarget, error) {
	return nil, nil
}

type fakePayrollQuery struct {
	existsByIDFn func(ctx context.Context, id string) (bool, error)
}

func (f *fakePayrollQuery) ExistsByID(ctx context.Context, id string) (bool, error) {
	if f.existsByIDFn != nil {
		return f.existsByIDFn(ctx, id)
	}
	return true, nil
}

type adjustmentServiceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	service      adjustment.Service
	repo         *fakeAdjustmentRepository
	employeeRepo *fakeEmployeeRepository
	payrolls     *fakePayrollQuery
}

func setupAdjustmentServiceTest(t *testing.T) *adjustmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAdjustmentRepository{}
	employeeRepo := &fakeEmployeeRepository{}
	payrolls := &fakePayrollQuery{}
	svc := adjustment.NewService(db, repo, employeeRepo, payrolls)

	return &adjustmentServiceDeps{
		db: db, sqlMock: sqlMock, service: svc,
		repo: repo, employeeRepo: employeeRepo, payrolls: payrolls,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func adjustmentEvent(t *testing.T, detail events.AdjustmentDetail) events.ApprovalDecisionEvent {
	t.Helper()
	raw, err := json.Marshal(detail)
	assert.NoError(t, err)
	return events.ApprovalDecisionEvent{
		Decision:    events.DecisionCompleted,
		TemplateKey: events.TemplateKeyPayrollAdjustment,
		DocID:       "APV-2026-0001",
		DrafterID:   uuid.New().String(),
		Details:     raw,
		OccurredAt:  time.Now().UTC(),
	}
}

func raiseEvent(t *testing.T, detail events.RaiseDetail) events.ApprovalDecisionEvent {
	t.Helper()
	raw, err := json.Marshal(detail)
	assert.NoError(t, err)
	return events.ApprovalDecisionEvent{
		Decision:    events.DecisionCompleted,
		TemplateKey: events.TemplateKeyPayrollRaise,
		DocID:       "APV-2026-0002",
		DrafterID:   uuid.New().String(),
		Details:     raw,
		OccurredAt:  time.Now().UTC(),
	}
}

func TestAdjustmentService_ApplyApprovedAdjustment(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the signed row", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		payrollID := uuid.New().String()
		var created *adjustment.PayrollAdjustment
		deps.repo.createAdjustmentFn = func(ctx context.Context, a *adjustment.PayrollAdjustment) error {
			created = a
			return nil
		}

		event := adjustmentEvent(t, events.AdjustmentDetail{
			PayrollID:      payrollID,
			Reason:         "meal allowance correction",
			Sign:           "-",
			Amount:         120000,
			EffectiveMonth: "2026-04",
		})

		err := deps.service.ApplyApprovedAdjustment(ctx, event)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, payrollID, created.PayrollID.String())
		assert.Equal(t, "APV-2026-0001", created.ApprovalDocID)
		assert.Equal(t, "2026-04", created.EffectiveMonth)
		assert.Equal(t, adjustment.StatusApproved, created.Status)
		assert.Equal(t, int64(-120000), created.SignedAmount())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("blank effective month defaults to next month", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *adjustment.PayrollAdjustment
		deps.repo.createAdjustmentFn = func(ctx context.Context, a *adjustment.PayrollAdjustment) error {
			created = a
			return nil
		}

		event := adjustmentEvent(t, events.AdjustmentDetail{
			PayrollID: uuid.New().String(),
			Reason:    "bonus",
			Sign:      "+",
			Amount:    500000,
		})

		err := deps.service.ApplyApprovedAdjustment(ctx, event)

		assert.NoError(t, err)
		assert.Equal(t, adjustment.NextEffectiveMonth(time.Now()), created.EffectiveMonth)
	})

	t.Run("rejects an unknown sign", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		event := adjustmentEvent(t, events.AdjustmentDetail{
			PayrollID: uuid.New().String(),
			Reason:    "typo",
			Sign:      "x",
			Amount:    100,
		})

		err := deps.service.ApplyApprovedAdjustment(ctx, event)

		assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidSign)
	})

	t.Run("rejects a missing payroll record", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		payrollID := uuid.New().String()
		deps.payrolls.existsByIDFn = func(ctx context.Context, id string) (bool, error) {
			assert.Equal(t, payrollID, id)
			return false, nil
		}
		deps.repo.createAdjustmentFn = func(ctx context.Context, a *adjustment.PayrollAdjustment) error {
			t.Fatal("no adjustment row may be written for a missing payroll")
			return nil
		}

		event := adjustmentEvent(t, events.AdjustmentDetail{
			PayrollID:      payrollID,
			Reason:         "bonus",
			Sign:           "+",
			Amount:         100000,
			EffectiveMonth: "2026-04",
		})

		err := deps.service.ApplyApprovedAdjustment(ctx, event)

		assert.ErrorIs(t, err, adjustmenterrors.ErrPayrollNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects an undecodable detail payload", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		event := events.ApprovalDecisionEvent{
			Decision:    events.DecisionCompleted,
			TemplateKey: events.TemplateKeyPayrollAdjustment,
			DocID:       "APV-2026-0003",
			DrafterID:   uuid.New().String(),
			Details:     json.RawMessage(`"not an object"`),
		}

		err := deps.service.ApplyApprovedAdjustment(ctx, event)

		assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidApprovalDetail)
	})
}

func TestAdjustmentService_ApplyApprovedRaise(t *testing.T) {
	ctx := context.Background()

	t.Run("records the raise and moves the base salary", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		employeeID := uuid.New().String()
		var created *adjustment.PayrollRaise
		deps.repo.createRaiseFn = func(ctx context.Context, r *adjustment.PayrollRaise) error {
			created = r
			return nil
		}

		var updatedSalary int64
		deps.employeeRepo.updateBaseSalaryFn = func(ctx context.Context, id string, baseSalary int64) error {
			assert.Equal(t, employeeID, id)
			updatedSalary = baseSalary
			return nil
		}

		event := raiseEvent(t, events.RaiseDetail{
			EmployeeID:     employeeID,
			Reason:         "annual review",
			BeforeSalary:   3000000,
			AfterSalary:    3300000,
			EffectiveMonth: "2026-05",
		})

		err := deps.service.ApplyApprovedRaise(ctx, event)

		assert.NoError(t, err)
		assert.Equal(t, int64(3300000), updatedSalary)
		assert.Equal(t, "2026-05", created.EffectiveMonth)
		assert.Equal(t, int64(3000000), created.BeforeSalary)
		assert.Equal(t, int64(3300000), created.AfterSalary)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("a raise for a missing employee rolls back", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		raiseCreated := false
		deps.repo.createRaiseFn = func(ctx context.Context, r *adjustment.PayrollRaise) error {
			raiseCreated = true
			return nil
		}
		deps.employeeRepo.updateBaseSalaryFn = func(ctx context.Context, id string, baseSalary int64) error {
			return gorm.ErrRecordNotFound
		}

		event := raiseEvent(t, events.RaiseDetail{
			EmployeeID:   uuid.New().String(),
			Reason:       "annual review",
			BeforeSalary: 3000000,
			AfterSalary:  3300000,
		})

		err := deps.service.ApplyApprovedRaise(ctx, event)

		assert.ErrorIs(t, err, adjustmenterrors.ErrEmployeeNotFound)
		assert.True(t, raiseCreated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("salary stays untouched when the raise row fails", func(t *testing.T) {
		deps := setupAdjustmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.createRaiseFn = func(ctx context.Context, r *adjustment.PayrollRaise) error {
			return assert.AnError
		}
		salaryTouched := false
		deps.employeeRepo.updateBaseSalaryFn = func(ctx context.Context, id string, baseSalary int64) error {
			salaryTouched = true
			return nil
		}

		event := raiseEvent(t, events.RaiseDetail{
			EmployeeID:   uuid.New().String(),
			Reason:       "annual review",
			BeforeSalary: 3000000,
			AfterSalary:  3300000,
		})

		err := deps.service.ApplyApprovedRaise(ctx, event)

		assert.Error(t, err)
		assert.False(t, salaryTouched)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestNextEffectiveMonth(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	assert.NoError(t, err)

	assert.Equal(t, "2026-04", adjustment.NextEffectiveMonth(time.Date(2026, 3, 15, 10, 0, 0, 0, seoul)))
	assert.Equal(t, "2027-01", adjustment.NextEffectiveMonth(time.Date(2026, 12, 31, 23, 59, 0, 0, seoul)))

	// A UTC instant late on the last day of the month is already the next
	// month in Seoul.
	assert.Equal(t, "2026-05", adjustment.NextEffectiveMonth(time.Date(2026, 3, 31, 16, 0, 0, 0, time.UTC)))
}

func TestAdjustmentService_GetNetAdjustment(t *testing.T) {
	ctx := context.Background()
	deps := setupAdjustmentServiceTest(t)
	defer deps.db.Close()

	employeeID := uuid.New().String()
	deps.repo.sumApprovedFn = func(ctx context.Context, eid, month string) (int64, error) {
		assert.Equal(t, employeeID, eid)
		assert.Equal(t, "2026-03", month)
		return -70000, nil
	}

	resp, err := deps.service.GetNetAdjustment(ctx, employeeID, "2026-03")

	assert.NoError(t, err)
	assert.Equal(t, int64(-70000), resp.NetAmount)

	_, err = deps.service.GetNetAdjustment(ctx, employeeID, "bad-month")
	assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidEffectiveMonth)
}
