package scheduling

import (
	"context"
	"fmt"

	"frontdesk/models"
	"frontdesk/services/notification"

	"go.uber.org/zap"
)

// TerminalState is where a scheduling attempt ends up. No state is ever
// re-entered; each intent runs once to exactly one of these.
type TerminalState string

const (
	StateNotified         TerminalState = "notified"
	StateNoAvailability   TerminalState = "noAvailability"
	StateSchedulingFailed TerminalState = "schedulingFailed"
	StateCancelled        TerminalState = "cancelled"
)

// Outcome is what the conversation layer turns into a spoken response.
type Outcome struct {
	State   TerminalState   `json:"state"`
	Booking *models.Booking `json:"booking,omitempty"`
}

// Engine drives one scheduling intent from Received to a terminal state:
// resolve candidates, commit against the ledger, emit a notification. It
// holds no per-intent state, so concurrent intents are independent.
type Engine struct {
	Resolver   *SlotResolver
	Ledger     *BookingLedger
	Dispatcher notification.Dispatcher
	Journal    *IntentJournal // optional; replays recorded outcomes for duplicate intent ids
	Logger     *zap.Logger

	// ConflictRetryLimit bounds re-resolution after a commit conflict
	// (default 2), so two callers racing for a popular slot cannot spin.
	ConflictRetryLimit int
	// CandidateLimit caps how many candidates a resolution returns.
	CandidateLimit int
}

func (e *Engine) retryLimit() int {
	if e.ConflictRetryLimit > 0 {
		return e.ConflictRetryLimit
	}
	return 2
}

func (e *Engine) candidateLimit() int {
	if e.CandidateLimit > 0 {
		return e.CandidateLimit
	}
	return 5
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

// SubmitIntent processes one intent to a terminal state. Fatal errors
// (unknown provider, invalid intent, invalid state) propagate as errors for
// the caller-facing layer to turn into a clarification prompt.
func (e *Engine) SubmitIntent(ctx context.Context, intent models.SchedulingIntent) (Outcome, error) {
	if e.Journal != nil && intent.ID != "" {
		if prior, ok := e.Journal.Lookup(ctx, intent.ID); ok {
			e.logger().Info("replaying recorded outcome for duplicate intent",
				zap.String("intent_id", intent.ID), zap.String("state", string(prior.State)))
			return prior, nil
		}
	}

	if err := e.validate(intent); err != nil {
		return Outcome{}, err
	}

	var (
		outcome Outcome
		err     error
	)
	switch intent.Kind {
	case models.IntentBook:
		outcome, err = e.book(ctx, intent)
	case models.IntentReschedule:
		outcome, err = e.reschedule(ctx, intent)
	case models.IntentCancel:
		outcome, err = e.cancel(ctx, intent)
	}
	if err != nil {
		return Outcome{}, err
	}

	if e.Journal != nil && intent.ID != "" {
		e.Journal.Record(ctx, intent.ID, outcome)
	}
	return outcome, nil
}

func (e *Engine) validate(intent models.SchedulingIntent) error {
	switch intent.Kind {
	case models.IntentBook, models.IntentReschedule:
		w := intent.Window
		if w.Duration <= 0 {
			return NewInvalidIntentError("requested duration must be positive")
		}
		if !w.Latest.After(w.Earliest) {
			return NewInvalidIntentError("requested range is empty")
		}
		if intent.Kind == models.IntentReschedule && intent.BookingID == "" {
			return NewInvalidIntentError("reschedule requires an existing booking reference")
		}
	case models.IntentCancel:
		if intent.BookingID == "" {
			return NewInvalidIntentError("cancel requires an existing booking reference")
		}
	default:
		return NewInvalidIntentError(fmt.Sprintf("unrecognized intent kind %q", intent.Kind))
	}
	return nil
}

func (e *Engine) book(ctx context.Context, intent models.SchedulingIntent) (Outcome, error) {
	w := intent.Window
	for attempt := 0; attempt <= e.retryLimit(); attempt++ {
		if err := ctx.Err(); err != nil {
			// Caller hung up before anything was committed; nothing to undo.
			return Outcome{}, err
		}
		candidates, err := e.Resolver.FindCandidates(ctx, intent.ProviderIDs, intent.Caller.CallerID,
			w.Earliest, w.Latest, w.Duration, e.candidateLimit())
		if err != nil {
			return Outcome{}, err
		}
		if len(candidates) == 0 {
			if attempt == 0 {
				return Outcome{State: StateNoAvailability}, nil
			}
			// Availability drained while we were retrying.
			return Outcome{State: StateSchedulingFailed}, nil
		}

		b, err := e.Ledger.Commit(ctx, candidates[0], intent.Caller)
		if IsConflict(err) {
			e.logger().Info("commit lost the slot, re-resolving",
				zap.String("provider_id", candidates[0].ProviderID),
				zap.Time("start", candidates[0].Start),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return Outcome{}, err
		}
		e.emitNotification(b, models.NotificationConfirmed)
		return Outcome{State: StateNotified, Booking: b}, nil
	}
	return Outcome{State: StateSchedulingFailed}, nil
}

func (e *Engine) reschedule(ctx context.Context, intent models.SchedulingIntent) (Outcome, error) {
	w := intent.Window
	for attempt := 0; attempt <= e.retryLimit(); attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		candidates, err := e.Resolver.FindCandidates(ctx, intent.ProviderIDs, intent.Caller.CallerID,
			w.Earliest, w.Latest, w.Duration, e.candidateLimit())
		if err != nil {
			return Outcome{}, err
		}
		if len(candidates) == 0 {
			if attempt == 0 {
				return Outcome{State: StateNoAvailability}, nil
			}
			return Outcome{State: StateSchedulingFailed}, nil
		}

		b, err := e.Ledger.Reschedule(ctx, intent.BookingID, candidates[0])
		if IsConflict(err) {
			e.logger().Info("reschedule lost the slot, re-resolving",
				zap.String("booking_id", intent.BookingID),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return Outcome{}, err
		}
		e.emitNotification(b, models.NotificationRescheduled)
		return Outcome{State: StateNotified, Booking: b}, nil
	}
	return Outcome{State: StateSchedulingFailed}, nil
}

func (e *Engine) cancel(ctx context.Context, intent models.SchedulingIntent) (Outcome, error) {
	b, err := e.Ledger.Cancel(ctx, intent.BookingID)
	if err != nil {
		return Outcome{}, err
	}
	e.emitNotification(b, models.NotificationCancelled)
	return Outcome{State: StateCancelled, Booking: b}, nil
}

// emitNotification hands exactly one request to the dispatcher. Delivery is
// the dispatcher's problem: a failure here is logged, never escalated, and
// never rolls back the ledger.
func (e *Engine) emitNotification(b *models.Booking, kind models.NotificationKind) {
	if e.Dispatcher == nil {
		return
	}
	req := models.NotificationRequest{
		BookingID: b.ID,
		Kind:      kind,
		Email:     b.Caller.Email,
	}
	// Detached context: a caller hang-up must not drop the confirmation.
	if err := e.Dispatcher.Enqueue(context.Background(), req); err != nil {
		e.logger().Warn("failed to enqueue notification",
			zap.String("booking_id", b.ID), zap.String("kind", string(kind)), zap.Error(err))
	}
	if kind == models.NotificationConfirmed || kind == models.NotificationRescheduled {
		if err := e.Dispatcher.EnqueueReminder(context.Background(), b.ID, b.Start); err != nil {
			e.logger().Warn("failed to schedule reminder",
				zap.String("booking_id", b.ID), zap.Error(err))
		}
	}
}
