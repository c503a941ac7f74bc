package consumer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go-payroll/internal/adjustment"
	adjustmenterrors "go-payroll/internal/adjustment/errors"
	"go-payroll/internal/events"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAdjustmentService struct {
	applyAdjustmentFn func(ctx context.Context, event events.ApprovalDecisionEvent) error
	applyRaiseFn      func(ctx context.Context, event events.ApprovalDecisionEvent) error
}

func (f *fakeAdjustmentService) ApplyApprovedAdjustment(ctx context.Context, event events.ApprovalDecisionEvent) error {
	if f.applyAdjustmentFn != nil {
		return f.applyAdjustmentFn(ctx, event)
	}
	return nil
}

func (f *fakeAdjustmentService) ApplyApprovedRaise(ctx context.Context, event events.ApprovalDecisionEvent) error {
	if f.applyRaiseFn != nil {
		return f.applyRaiseFn(ctx, event)
	}
	return nil
}

func (f *fakeAdjustmentService) GetAdjustmentsByPayroll(ctx context.Context, payrollID string) ([]adjustment.AdjustmentResponse, error) {
	return nil, nil
}

func (f *fakeAdjustmentService) GetRaisesByEmployee(ctx context.Context, employeeID string) ([]adjustment.RaiseResponse, error) {
	return nil, nil
}

func (f *fakeAdjustmentService) GetNetAdjustment(ctx context.Context, employeeID, salaryMonth string) (adjustment.NetAdjustmentResponse, error) {
	return adjustment.NetAdjustmentResponse{}, nil
}

func TestNewApprovalHandlers_Dispatch(t *testing.T) {
	ctx := context.Background()

	var adjustmentCalled, raiseCalled bool
	svc := &fakeAdjustmentService{
		applyAdjustmentFn: func(ctx context.Context, event events.ApprovalDecisionEvent) error {
			adjustmentCalled = true
			return nil
		},
		applyRaiseFn: func(ctx context.Context, event events.ApprovalDecisionEvent) error {
			raiseCalled = true
			return nil
		},
	}

	handlers := NewApprovalHandlers(svc)

	handler, ok := handlers[events.TemplateKeyPayrollAdjustment]
	assert.True(t, ok)
	assert.NoError(t, handler(ctx, events.ApprovalDecisionEvent{TemplateKey: events.TemplateKeyPayrollAdjustment}))
	assert.True(t, adjustmentCalled)
	assert.False(t, raiseCalled)

	handler, ok = handlers[events.TemplateKeyPayrollRaise]
	assert.True(t, ok)
	assert.NoError(t, handler(ctx, events.ApprovalDecisionEvent{TemplateKey: events.TemplateKeyPayrollRaise}))
	assert.True(t, raiseCalled)

	_, ok = handlers["vacationrequest"]
	assert.False(t, ok)
}

func TestIsPermanentApprovalError(t *testing.T) {
	assert.True(t, isPermanentApprovalError(adjustmenterrors.ErrInvalidApprovalDetail))
	assert.True(t, isPermanentApprovalError(adjustmenterrors.ErrRaiseMonthAlreadyExists))
	assert.True(t, isPermanentApprovalError(adjustmenterrors.ErrAdjustmentDocAlreadyApplied))
	assert.True(t, isPermanentApprovalError(adjustmenterrors.ErrPayrollNotFound))
	assert.True(t, isPermanentApprovalError(adjustmenterrors.ErrEmployeeNotFound))
	assert.True(t, isPermanentApprovalError(
		fmt.Errorf("applying document: %w", adjustmenterrors.ErrInvalidSign)))

	assert.False(t, isPermanentApprovalError(errors.New("connection refused")))
	assert.False(t, isPermanentApprovalError(context.DeadlineExceeded))
}

func TestApplyWithRetry(t *testing.T) {
	log := zap.NewNop()
	event := events.ApprovalDecisionEvent{
		DocID:       "APV-2026-0009",
		TemplateKey: events.TemplateKeyPayrollRaise,
	}

	t.Run("a transient failure retries the same event until it succeeds", func(t *testing.T) {
		calls := 0
		handler := func(ctx context.Context, e events.ApprovalDecisionEvent) error {
			calls++
			assert.Equal(t, "APV-2026-0009", e.DocID)
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}

		err := applyWithRetry(context.Background(), handler, event, log, time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("a permanent failure returns without retrying", func(t *testing.T) {
		calls := 0
		handler := func(ctx context.Context, e events.ApprovalDecisionEvent) error {
			calls++
			return adjustmenterrors.ErrAdjustmentDocAlreadyApplied
		}

		err := applyWithRetry(context.Background(), handler, event, log, time.Millisecond)

		assert.ErrorIs(t, err, adjustmenterrors.ErrAdjustmentDocAlreadyApplied)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation stops the retry loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		handler := func(ctx context.Context, e events.ApprovalDecisionEvent) error {
			calls++
			return errors.New("connection refused")
		}

		err := applyWithRetry(ctx, handler, event, log, time.Hour)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
