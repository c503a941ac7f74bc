package adjustment

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	adjustmenterrors "go-payroll/internal/adjustment/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PayrollQuery is the slice of the payroll repository this service needs
// to verify that an adjustment targets an existing record.
type PayrollQuery interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

//go:generate mockgen -source=adjustment_service.go -destination=mock/adjustment_service_mock.go -package=mock
type Service interface {
	ApplyApprovedAdjustment(ctx context.Context, event events.ApprovalDecisionEvent) error
	ApplyApprovedRaise(ctx context.Context, event events.ApprovalDecisionEvent) error
	GetAdjustmentsByPayroll(ctx context.Context, payrollID string) ([]AdjustmentResponse, error)
	GetRaisesByEmployee(ctx context.Context, employeeID string) ([]RaiseResponse, error)
	GetNetAdjustment(ctx context.Context, employeeID, salaryMonth string) (NetAdjustmentResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	payrolls     PayrollQuery
	now          func() time.Time
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, payrolls PayrollQuery) Service {
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		payrolls:     payrolls,
		now:          time.Now,
	}
}

// ApplyApprovedAdjustment records a completed adjustment document as an
// immutable adjustment row. The payroll record itself is not touched;
// the amount lands in net pay on the next calculation of the effective
// month.
func (s *service) ApplyApprovedAdjustment(ctx context.Context, event events.ApprovalDecisionEvent) error {
	detail, err := event.AdjustmentDetail()
	if err != nil {
		return adjustmenterrors.ErrInvalidApprovalDetail
	}

	payrollUUID, err := uuid.Parse(detail.PayrollID)
	if err != nil {
		return adjustmenterrors.ErrInvalidPayrollID
	}
	drafterUUID, err := uuid.Parse(event.DrafterID)
	if err != nil {
		return adjustmenterrors.ErrInvalidApprovalDetail
	}
	if detail.Sign != SignPlus && detail.Sign != SignMinus {
		return adjustmenterrors.ErrInvalidSign
	}

	effectiveMonth, err := s.resolveEffectiveMonth(detail.EffectiveMonth)
	if err != nil {
		return err
	}

	exists, err := s.payrolls.ExistsByID(ctx, detail.PayrollID)
	if err != nil {
		return err
	}
	if !exists {
		return adjustmenterrors.ErrPayrollNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a := &PayrollAdjustment{
		ID:             uuid.New(),
		PayrollID:      payrollUUID,
		ApprovalDocID:  event.DocID,
		Reason:         detail.Reason,
		Sign:           detail.Sign,
		Amount:         detail.Amount,
		EffectiveMonth: effectiveMonth,
		Status:         StatusApproved,
		CreatedBy:      drafterUUID,
	}
	if err := qtx.CreateAdjustment(ctx, a); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	zap.L().Named("adjustment.service").Info("adjustment applied",
		zap.String("doc_id", event.DocID),
		zap.String("payroll_id", detail.PayrollID),
		zap.String("effective_month", effectiveMonth),
		zap.Int64("amount", a.SignedAmount()),
	)
	return nil
}

// ApplyApprovedRaise records the raise and moves the employee's base
// salary to the approved amount, in one transaction.
func (s *service) ApplyApprovedRaise(ctx context.Context, event events.ApprovalDecisionEvent) error {
	detail, err := event.RaiseDetail()
	if err != nil {
		return adjustmenterrors.ErrInvalidApprovalDetail
	}

	employeeUUID, err := uuid.Parse(detail.EmployeeID)
	if err != nil {
		return adjustmenterrors.ErrInvalidEmployeeID
	}
	drafterUUID, err := uuid.Parse(event.DrafterID)
	if err != nil {
		return adjustmenterrors.ErrInvalidApprovalDetail
	}

	effectiveMonth, err := s.resolveEffectiveMonth(detail.EffectiveMonth)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	eqtx := s.employeeRepo.WithTx(tx)

	raise := &PayrollRaise{
		ID:             uuid.New(),
		EmployeeID:     employeeUUID,
		ApprovalDocID:  event.DocID,
		Reason:         detail.Reason,
		BeforeSalary:   detail.BeforeSalary,
		AfterSalary:    detail.AfterSalary,
		EffectiveMonth: effectiveMonth,
		Status:         StatusApproved,
		RequestedBy:    drafterUUID,
	}
	if err := qtx.CreateRaise(ctx, raise); err != nil {
		return mapRepositoryError(err)
	}

	if err := eqtx.UpdateBaseSalary(ctx, detail.EmployeeID, detail.AfterSalary); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return adjustmenterrors.ErrEmployeeNotFound
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	zap.L().Named("adjustment.service").Info("raise applied",
		zap.String("doc_id", event.DocID),
		zap.String("employee_id", detail.EmployeeID),
		zap.String("effective_month", effectiveMonth),
		zap.Int64("after_salary", detail.AfterSalary),
	)
	return nil
}

func (s *service) GetAdjustmentsByPayroll(ctx context.Context, payrollID string) ([]AdjustmentResponse, error) {
	if _, err := uuid.Parse(payrollID); err != nil {
		return nil, adjustmenterrors.ErrInvalidPayrollID
	}

	list, err := s.repo.FindAdjustmentsByPayroll(ctx, payrollID)
	if err != nil {
		return nil, err
	}

	resp := make([]AdjustmentResponse, len(list))
	for i, a := range list {
		resp[i] = mapToAdjustmentResponse(a)
	}
	return resp, nil
}

func (s *service) GetRaisesByEmployee(ctx context.Context, employeeID string) ([]RaiseResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, adjustmenterrors.ErrInvalidEmployeeID
	}

	list, err := s.repo.FindRaisesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]RaiseResponse, len(list))
	for i, r := range list {
		resp[i] = mapToRaiseResponse(r)
	}
	return resp, nil
}

func (s *service) GetNetAdjustment(ctx context.Context, employeeID, salaryMonth string) (NetAdjustmentResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return NetAdjustmentResponse{}, adjustmenterrors.ErrInvalidEmployeeID
	}
	if _, err := time.Parse("2006-01", salaryMonth); err != nil {
		return NetAdjustmentResponse{}, adjustmenterrors.ErrInvalidEffectiveMonth
	}

	total, err := s.repo.SumApprovedForEmployeeMonth(ctx, employeeID, salaryMonth)
	if err != nil {
		return NetAdjustmentResponse{}, err
	}

	return NetAdjustmentResponse{
		EmployeeID:  employeeID,
		SalaryMonth: salaryMonth,
		NetAmount:   total,
	}, nil
}

// resolveEffectiveMonth validates the requested month, or defaults a
// blank one to the month after the current one in payroll-local time.
func (s *service) resolveEffectiveMonth(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return NextEffectiveMonth(s.now()), nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return "", adjustmenterrors.ErrInvalidEffectiveMonth
	}
	return t.Format("2006-01"), nil
}

// NextEffectiveMonth returns the month after the given instant in the
// payroll timezone. Approvals landing late in a month still target the
// first month that has not been calculated yet.
func NextEffectiveMonth(now time.Time) string {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc).
		AddDate(0, 1, 0).
		Format("2006-01")
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_raise_employee_month":
			return adjustmenterrors.ErrRaiseMonthAlreadyExists
		case "uq_adjustment_doc", "uq_raise_doc":
			return adjustmenterrors.ErrAdjustmentDocAlreadyApplied
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_raise_employee_month") {
			return adjustmenterrors.ErrRaiseMonthAlreadyExists
		}
		if strings.Contains(errMsg, "uq_adjustment_doc") || strings.Contains(errMsg, "uq_raise_doc") {
			return adjustmenterrors.ErrAdjustmentDocAlreadyApplied
		}
	}

	return err
}
