package batch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	batcherrors "go-payroll/internal/batch/errors"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payment"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=batch_service.go -destination=mock/batch_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateBatchRequest) (BatchResponse, error)
	GetAll(ctx context.Context) ([]BatchResponse, error)
	GetByID(ctx context.Context, id string) (BatchResponse, error)
	GetTargets(ctx context.Context) ([]TargetEmployeeResponse, error)
	GetPayrolls(ctx context.Context, batchID string) ([]PayrollResponse, error)
	GetPayrollItems(ctx context.Context, payrollID string) ([]PayrollItemResponse, error)
	Calculate(ctx context.Context, batchID string, req CalculateRequest) (CalculateResponse, error)
	Confirm(ctx context.Context, batchID string) (BatchResponse, error)
	Pay(ctx context.Context, batchID string) (BatchResponse, error)
}

type service struct {
	db           *sql.DB
	repo         BatchRepository
	payrollRepo  PayrollRepository
	employeeRepo employee.Repository
	paymentRepo  payment.Repository
	calculator   Calculator
	outbox       kafka.OutboxRepository
}

func NewService(
	db *sql.DB,
	repo BatchRepository,
	payrollRepo PayrollRepository,
	employeeRepo employee.Repository,
	paymentRepo payment.Repository,
	calculator Calculator,
) Service {
	return &service{
		db:           db,
		repo:         repo,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		paymentRepo:  paymentRepo,
		calculator:   calculator,
	}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo BatchRepository,
	payrollRepo PayrollRepository,
	employeeRepo employee.Repository,
	paymentRepo payment.Repository,
	calculator Calculator,
	outbox kafka.OutboxRepository,
) Service {
	return &service{
		db:           db,
		repo:         repo,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		paymentRepo:  paymentRepo,
		calculator:   calculator,
		outbox:       outbox,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateBatchRequest) (BatchResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return BatchResponse{}, batcherrors.ErrInvalidActorID
	}
	salaryMonth, err := parseSalaryMonth(req.SalaryMonth)
	if err != nil {
		return BatchResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BatchResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsBySalaryMonth(ctx, salaryMonth)
	if err != nil {
		return BatchResponse{}, err
	}
	if exists {
		return BatchResponse{}, batcherrors.ErrDuplicateBatch
	}

	b := NewBatch(salaryMonth, actorUUID)
	if err := qtx.Create(ctx, b); err != nil {
		return BatchResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return BatchResponse{}, err
	}

	return mapToBatchResponse(*b), nil
}

func (s *service) GetAll(ctx context.Context) ([]BatchResponse, error) {
	batches, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]BatchResponse, len(batches))
	for i, b := range batches {
		resp[i] = mapToBatchResponse(b)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (BatchResponse, error) {
	b, err := s.findBatch(ctx, s.repo, id)
	if err != nil {
		return BatchResponse{}, err
	}
	return mapToBatchResponse(*b), nil
}

func (s *service) GetTargets(ctx context.Context) ([]TargetEmployeeResponse, error) {
	targets, err := s.employeeRepo.SelectBatchTargets(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TargetEmployeeResponse, len(targets))
	for i, t := range targets {
		resp[i] = TargetEmployeeResponse{
			EmployeeID: t.EmployeeID.String(),
			Department: t.Department,
			Name:       t.Name,
		}
	}
	return resp, nil
}

func (s *service) GetPayrolls(ctx context.Context, batchID string) ([]PayrollResponse, error) {
	if _, err := s.findBatch(ctx, s.repo, batchID); err != nil {
		return nil, err
	}

	payrolls, err := s.payrollRepo.FindAllByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToPayrollResponse(p)
	}
	return resp, nil
}

func (s *service) GetPayrollItems(ctx context.Context, payrollID string) ([]PayrollItemResponse, error) {
	if _, err := uuid.Parse(payrollID); err != nil {
		return nil, batcherrors.ErrInvalidPayrollID
	}

	if _, err := s.payrollRepo.FindByID(ctx, payrollID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batcherrors.ErrPayrollNotFound
		}
		return nil, err
	}

	items, err := s.payrollRepo.FindItems(ctx, payrollID)
	if err != nil {
		return nil, err
	}

	resp := make([]PayrollItemResponse, len(items))
	for i, item := range items {
		resp[i] = PayrollItemResponse{
			ItemType: item.ItemType,
			ItemCode: item.ItemCode,
			Amount:   item.Amount,
		}
	}
	return resp, nil
}

// Calculate runs the batch. Each employee commits in its own
// transaction inside the calculator, and the batch's READY->CALCULATED
// transition commits separately afterwards, so partial failures never
// roll back what already finished.
func (s *service) Calculate(ctx context.Context, batchID string, req CalculateRequest) (CalculateResponse, error) {
	b, err := s.findBatch(ctx, s.repo, batchID)
	if err != nil {
		return CalculateResponse{}, err
	}

	if !CanCalculate(b.Status) {
		return CalculateResponse{}, batcherrors.ErrInvalidBatchState
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		targets, err := s.employeeRepo.SelectBatchTargets(ctx)
		if err != nil {
			return CalculateResponse{}, err
		}
		if len(targets) == 0 {
			return CalculateResponse{}, batcherrors.ErrNoTargetEmployees
		}
		for _, t := range targets {
			employeeIDs = append(employeeIDs, t.EmployeeID.String())
		}
	}

	summary := s.calculator.CalculateEmployees(ctx, b, employeeIDs)

	if b.Status == BatchStatusReady {
		if err := s.markCalculated(ctx, b); err != nil {
			return CalculateResponse{}, err
		}
	}

	return CalculateResponse{
		BatchID:     b.ID.String(),
		SalaryMonth: b.SalaryMonth,
		Status:      b.Status,
		Summary:     summary,
	}, nil
}

// markCalculated commits the status transition in a transaction of its
// own: it must survive even when some employees failed during the run.
func (s *service) markCalculated(ctx context.Context, b *PayrollBatch) error {
	if err := b.TransitionTo(BatchStatusCalculated); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).UpdateStatus(ctx, b.ID.String(), BatchStatusCalculated); err != nil {
		return err
	}

	return tx.Commit()
}

// Confirm is the irreversibility boundary. The failed-records check and
// the lock of every record run in one transaction so an in-flight
// calculation can never slip a write into a confirmed batch.
func (s *service) Confirm(ctx context.Context, batchID string) (BatchResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BatchResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	pqtx := s.payrollRepo.WithTx(tx)

	b, err := s.findBatch(ctx, qtx, batchID)
	if err != nil {
		return BatchResponse{}, err
	}

	if err := b.TransitionTo(BatchStatusConfirmed); err != nil {
		return BatchResponse{}, err
	}

	hasFailed, err := pqtx.ExistsByBatchIDAndStatus(ctx, batchID, PayrollStatusFailed)
	if err != nil {
		return BatchResponse{}, err
	}
	if hasFailed {
		return BatchResponse{}, batcherrors.ErrBatchHasFailedPayrolls
	}

	if err := pqtx.LockAllByBatchID(ctx, batchID); err != nil {
		return BatchResponse{}, err
	}
	if err := qtx.UpdateStatus(ctx, batchID, BatchStatusConfirmed); err != nil {
		return BatchResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BatchResponse{}, err
	}

	return mapToBatchResponse(*b), nil
}

func (s *service) Pay(ctx context.Context, batchID string) (BatchResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BatchResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	pqtx := s.payrollRepo.WithTx(tx)
	hqtx := s.paymentRepo.WithTx(tx)

	b, err := s.findBatch(ctx, qtx, batchID)
	if err != nil {
		return BatchResponse{}, err
	}

	if err := b.TransitionTo(BatchStatusPaid); err != nil {
		return BatchResponse{}, err
	}

	payrolls, err := pqtx.FindAllByBatchID(ctx, batchID)
	if err != nil {
		return BatchResponse{}, err
	}
	if len(payrolls) == 0 {
		return BatchResponse{}, batcherrors.ErrNoPayrollsInBatch
	}

	paidAt := time.Now().UTC()
	var totalNetPay int64
	for _, p := range payrolls {
		totalNetPay += p.NetPay
		history := payment.NewHistory(p.ID, b.ID, p.EmployeeID, p.NetPay, paidAt)
		if err := hqtx.Create(ctx, history); err != nil {
			return BatchResponse{}, err
		}
	}

	if err := pqtx.MarkAllPaidByBatchID(ctx, batchID); err != nil {
		return BatchResponse{}, err
	}
	if err := qtx.UpdateStatus(ctx, batchID, BatchStatusPaid); err != nil {
		return BatchResponse{}, err
	}

	if s.outbox != nil {
		if err := s.queueBatchPaidEvent(ctx, tx, b, len(payrolls), totalNetPay, paidAt); err != nil {
			return BatchResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return BatchResponse{}, err
	}

	return mapToBatchResponse(*b), nil
}

func (s *service) queueBatchPaidEvent(
	ctx context.Context,
	tx *sql.Tx,
	b *PayrollBatch,
	payrollCount int,
	totalNetPay int64,
	paidAt time.Time,
) error {
	payload, err := json.Marshal(events.BatchPaidEvent{
		EventType:    "payroll.batch.paid",
		BatchID:      b.ID.String(),
		SalaryMonth:  b.SalaryMonth,
		PayrollCount: payrollCount,
		TotalNetPay:  totalNetPay,
		OccurredAt:   paidAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "payroll_batch",
		AggregateID:   b.ID.String(),
		EventType:     "payroll.batch.paid",
		Topic:         events.BatchPaidTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

type batchFinder interface {
	FindByID(ctx context.Context, id string) (*PayrollBatch, error)
}

func (s *service) findBatch(ctx context.Context, repo batchFinder, id string) (*PayrollBatch, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, batcherrors.ErrInvalidBatchID
	}

	b, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batcherrors.ErrBatchNotFound
		}
		return nil, err
	}
	return b, nil
}

func parseSalaryMonth(v string) (string, error) {
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return "", batcherrors.ErrInvalidSalaryMonth
	}
	return t.Format("2006-01"), nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payroll_batch_month" {
			return batcherrors.ErrDuplicateBatch
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payroll_batch_month") {
		return batcherrors.ErrDuplicateBatch
	}

	return err
}
