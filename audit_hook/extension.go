// Package audithook bridges Storefront lifecycle events to an audit
// trail backend.
//
// It defines a local Recorder interface so the package does not depend
// on any specific audit sink. Callers inject a RecorderFunc adapter at
// wiring time; the default records through slog.
package audithook

import (
	"context"
	"log/slog"

	"github.com/harborlane/storefront/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnOrderCreated         = (*Extension)(nil)
	_ plugin.OnOrderStatusChanged   = (*Extension)(nil)
	_ plugin.OnPaymentCompleted     = (*Extension)(nil)
	_ plugin.OnPaymentSessionFailed = (*Extension)(nil)
	_ plugin.OnCouponRedeemed       = (*Extension)(nil)
	_ plugin.OnProductCreated       = (*Extension)(nil)
	_ plugin.OnUserRegistered       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audit trail entry.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// SlogRecorder records audit events through a structured logger.
func SlogRecorder(logger *slog.Logger) Recorder {
	return RecorderFunc(func(ctx context.Context, event *AuditEvent) error {
		logger.InfoContext(ctx, "audit",
			"action", event.Action,
			"resource", event.Resource,
			"resource_id", event.ResourceID,
			"category", event.Category,
			"outcome", event.Outcome,
			"severity", event.Severity,
			"reason", event.Reason,
		)
		return nil
	})
}

// Extension bridges Storefront lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// OnOrderCreated implements plugin.OnOrderCreated.
func (e *Extension) OnOrderCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, &AuditEvent{
		Action:   ActionOrderCreated,
		Resource: ResourceOrder,
		Category: CategoryCheckout,
		Outcome:  OutcomeSuccess,
		Severity: SeverityInfo,
	})
}

// OnOrderStatusChanged implements plugin.OnOrderStatusChanged.
func (e *Extension) OnOrderStatusChanged(ctx context.Context, orderID, status string) error {
	return e.record(ctx, &AuditEvent{
		Action:     ActionOrderStatusChanged,
		Resource:   ResourceOrder,
		ResourceID: orderID,
		Category:   CategoryCheckout,
		Outcome:    OutcomeSuccess,
		Severity:   SeverityInfo,
		Metadata:   map[string]any{"status": status},
	})
}

// OnPaymentCompleted implements plugin.OnPaymentCompleted.
func (e *Extension) OnPaymentCompleted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, &AuditEvent{
		Action:   ActionPaymentCompleted,
		Resource: ResourcePayment,
		Category: CategoryPayment,
		Outcome:  OutcomeSuccess,
		Severity: SeverityInfo,
	})
}

// OnPaymentSessionFailed implements plugin.OnPaymentSessionFailed.
func (e *Extension) OnPaymentSessionFailed(ctx context.Context, orderID string, cause error) error {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	return e.record(ctx, &AuditEvent{
		Action:     ActionPaymentSessionFailed,
		Resource:   ResourcePayment,
		ResourceID: orderID,
		Category:   CategoryPayment,
		Outcome:    OutcomeFailure,
		Severity:   SeverityError,
		Reason:     reason,
	})
}

// OnCouponRedeemed implements plugin.OnCouponRedeemed.
func (e *Extension) OnCouponRedeemed(ctx context.Context, code string, discountPercent int) error {
	return e.record(ctx, &AuditEvent{
		Action:     ActionCouponRedeemed,
		Resource:   ResourceCoupon,
		ResourceID: code,
		Category:   CategoryCheckout,
		Outcome:    OutcomeSuccess,
		Severity:   SeverityInfo,
		Metadata:   map[string]any{"discount_percent": discountPercent},
	})
}

// OnProductCreated implements plugin.OnProductCreated.
func (e *Extension) OnProductCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, &AuditEvent{
		Action:   ActionProductCreated,
		Resource: ResourceProduct,
		Category: CategoryCatalog,
		Outcome:  OutcomeSuccess,
		Severity: SeverityInfo,
	})
}

// OnUserRegistered implements plugin.OnUserRegistered.
func (e *Extension) OnUserRegistered(ctx context.Context, userID string) error {
	return e.record(ctx, &AuditEvent{
		Action:     ActionUserRegistered,
		Resource:   ResourceUser,
		ResourceID: userID,
		Category:   CategoryAccount,
		Outcome:    OutcomeSuccess,
		Severity:   SeverityInfo,
	})
}

func (e *Extension) record(ctx context.Context, event *AuditEvent) error {
	if e.enabled != nil && !e.enabled[event.Action] {
		return nil
	}
	if err := e.recorder.Record(ctx, event); err != nil {
		e.logger.Warn("audit record failed", "action", event.Action, "error", err)
	}
	return nil
}
