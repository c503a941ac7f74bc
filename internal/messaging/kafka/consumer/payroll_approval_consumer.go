package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-payroll/internal/adjustment"
	adjustmenterrors "go-payroll/internal/adjustment/errors"
	"go-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const applyRetryBackoff = 5 * time.Second

// ApprovalHandler applies one completed approval document.
type ApprovalHandler func(ctx context.Context, event events.ApprovalDecisionEvent) error

// NewApprovalHandlers builds the template-key dispatch table. Adding a
// payroll-relevant document type means adding one entry here.
func NewApprovalHandlers(adjustmentService adjustment.Service) map[string]ApprovalHandler {
	return map[string]ApprovalHandler{
		events.TemplateKeyPayrollAdjustment: adjustmentService.ApplyApprovedAdjustment,
		events.TemplateKeyPayrollRaise:      adjustmentService.ApplyApprovedRaise,
	}
}

// ConsumePayrollApprovals processes the approval decision stream.
// Messages that can never succeed (undecodable, foreign template key,
// already-applied document) are committed and skipped; transient
// failures retry the same message with backoff, so the offset never
// moves past an event that has not been applied.
func ConsumePayrollApprovals(
	ctx context.Context,
	reader *kafkago.Reader,
	handlers map[string]ApprovalHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_approval")
	log.Info("payroll approval consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll approval consumer stopped")
				return
			}
			log.Error("fetch approval decision message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalDecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		handler, ok := handlers[event.TemplateKey]
		if !ok {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		// A rejection terminates the document without any payroll effect.
		if event.Decision != events.DecisionCompleted {
			log.Info("approval document not completed, ignoring",
				zap.String("doc_id", event.DocID),
				zap.String("template_key", event.TemplateKey),
				zap.String("decision", event.Decision),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := applyWithRetry(ctx, handler, event, log, applyRetryBackoff); err != nil {
			if ctx.Err() != nil {
				log.Info("payroll approval consumer stopped")
				return
			}

			log.Warn("approval document cannot be applied, skipping",
				zap.String("doc_id", event.DocID),
				zap.String("template_key", event.TemplateKey),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval decision message failed", zap.Error(err))
			continue
		}

		log.Info("approval decision applied",
			zap.String("doc_id", event.DocID),
			zap.String("template_key", event.TemplateKey),
		)
	}
}

// applyWithRetry keeps applying the same event until it succeeds, fails
// permanently, or the context is canceled. Blocking here instead of
// fetching the next message keeps the consumer from committing past an
// event it has not applied.
func applyWithRetry(
	ctx context.Context,
	handler ApprovalHandler,
	event events.ApprovalDecisionEvent,
	log *zap.Logger,
	backoff time.Duration,
) error {
	for {
		err := handler(ctx, event)
		if err == nil || isPermanentApprovalError(err) {
			return err
		}

		log.Error("apply approval decision failed, retrying",
			zap.String("doc_id", event.DocID),
			zap.String("template_key", event.TemplateKey),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// isPermanentApprovalError reports whether retrying the same message can
// never succeed.
func isPermanentApprovalError(err error) bool {
	for _, sentinel := range []error{
		adjustmenterrors.ErrInvalidApprovalDetail,
		adjustmenterrors.ErrInvalidSign,
		adjustmenterrors.ErrInvalidEffectiveMonth,
		adjustmenterrors.ErrInvalidPayrollID,
		adjustmenterrors.ErrInvalidEmployeeID,
		adjustmenterrors.ErrPayrollNotFound,
		adjustmenterrors.ErrEmployeeNotFound,
		adjustmenterrors.ErrRaiseMonthAlreadyExists,
		adjustmenterrors.ErrAdjustmentDocAlreadyApplied,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
