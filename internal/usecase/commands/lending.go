package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/domain/item"
	"library-lending/internal/domain/user"
	"library-lending/internal/infra"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/pkg/ptr"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	OperationDurationMetric = "lending.operation.duration"
	OperationTotalMetric    = "lending.operation.total"

	maxExtendAttempts = 5
)

var (
	ErrInsufficientAvailability = item.ErrInsufficientAvailability
	ErrAlreadyReturned          = borrowing.ErrAlreadyReturned
	ErrInvalidExtension         = borrowing.ErrInvalidExtension
	ErrInvalidReturnDate        = borrowing.ErrInvalidReturnDate
	ErrUserNotEligible          = errs.New("user is not eligible to borrow")
	ErrOverRelease              = errs.New("capacity release exceeded total copies")
	ErrIdempotencyKeyReused     = errs.New("idempotency key already used for a different request")
	ErrBorrowInProgress         = errs.New("borrow with this idempotency key is in progress")
	ErrConcurrentExtension      = errs.New("borrowing was extended concurrently")
)

type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// mayActFor reports whether the actor may operate on a borrowing owned by ownerID.
func (a Actor) mayActFor(ownerID uuid.UUID) bool {
	return a.ID == ownerID || a.Role.Can(user.PermActOnBehalf)
}

type BorrowRequest struct {
	Actor          Actor
	UserID         uuid.UUID // uuid.Nil borrows for the actor
	ItemID         uuid.UUID
	Notes          string
	IdempotencyKey uuid.UUID
}

type BorrowResult struct {
	Record   *borrowing.Record
	Replayed bool
}

type ReturnRequest struct {
	Actor       Actor
	BorrowingID uuid.UUID
	ReturnDate  *time.Time
	Notes       *string
}

type ExtendRequest struct {
	Actor          Actor
	BorrowingID    uuid.UUID
	AdditionalDays int
}

//go:generate mockgen -source=lending.go -destination=../../../tests/mock/commands/lending_mock.go -package=commandsmock
type LendingCommands interface {
	Borrow(ctx context.Context, req BorrowRequest) (*BorrowResult, error)
	Return(ctx context.Context, req ReturnRequest) (*borrowing.Record, error)
	Extend(ctx context.Context, req ExtendRequest) (*borrowing.Record, error)
}

type lendingUseCaseImpl struct {
	pool       shared.CapacityPool
	ledger     shared.BorrowingLedger
	catalog    shared.ItemCatalog
	users      shared.UserDirectory
	sagas      shared.SagaLog
	publisher  shared.EventPublisher
	metrics    shared.MetricsCollector
	clock      clock.Clock
	fees       borrowing.FeePolicy
	loanPeriod time.Duration
	sagaLease  time.Duration
	// detachedTimeout bounds compensation and the release after a return, which run on a
	// context that ignores the caller's cancellation.
	detachedTimeout time.Duration
}

func NewLendingUseCase(
	pool shared.CapacityPool,
	ledger shared.BorrowingLedger,
	catalog shared.ItemCatalog,
	users shared.UserDirectory,
	sagas shared.SagaLog,
	publisher shared.EventPublisher,
	metrics shared.MetricsCollector,
	clk clock.Clock,
	cfg config.Config,
) LendingCommands {
	detached := cfg.Storage.OpTimeout * time.Duration(cfg.Storage.RetryMaxAttempts+1)
	if detached <= 0 {
		detached = 10 * time.Second
	}
	return &lendingUseCaseImpl{
		pool:            pool,
		ledger:          ledger,
		catalog:         catalog,
		users:           users,
		sagas:           sagas,
		publisher:       publisher,
		metrics:         metrics,
		clock:           clk,
		fees:            borrowing.NewFeePolicy(borrowing.Money(cfg.Lending.FeePerDayCents)),
		loanPeriod:      cfg.Lending.LoanPeriod(),
		sagaLease:       cfg.Lending.SagaLease,
		detachedTimeout: detached,
	}
}

func (uc *lendingUseCaseImpl) Borrow(ctx context.Context, req BorrowRequest) (result *BorrowResult, err error) {
	start := time.Now()
	defer func() { uc.observe(ctx, "borrow", start, err) }()

	if err = borrowing.ValidateNotes(req.Notes); err != nil {
		return nil, err
	}
	userID := req.UserID
	if userID == uuid.Nil {
		userID = req.Actor.ID
	}
	if !req.Actor.mayActFor(userID) {
		return nil, shared.ErrNotPermitted
	}

	key := req.IdempotencyKey
	if key == uuid.Nil {
		key = uuid.New()
	}

	now := uc.clock.Now()
	hash := borrowRequestHash(userID, req.ItemID, req.Notes)
	saga, claimed, err := uc.sagas.Begin(ctx, shared.BeginSagaParams{
		Key:         key,
		UserID:      userID,
		ItemID:      req.ItemID,
		RequestHash: hash,
		BorrowingID: uuid.New(),
		LeaseToken:  uuid.New(),
		LeaseUntil:  now.Add(uc.sagaLease),
		Now:         now,
	})
	if err != nil {
		return nil, shared.MapStorageErr(err, nil)
	}
	if saga.RequestHash != hash {
		return nil, ErrIdempotencyKeyReused
	}

	if !claimed {
		if saga.Status != shared.SagaCompleted {
			return nil, ErrBorrowInProgress
		}
		rec, gerr := uc.ledger.Get(ctx, saga.BorrowingID)
		if gerr != nil {
			return nil, shared.MapStorageErr(gerr, shared.ErrBorrowingNotFound)
		}
		return &BorrowResult{Record: rec, Replayed: true}, nil
	}

	rec, err := uc.runBorrowSaga(ctx, saga, req.Notes)
	if err != nil {
		return nil, err
	}
	return &BorrowResult{Record: rec}, nil
}

// runBorrowSaga drives a claimed saga to completion. A saga resumed in the acquired state
// already holds its copy, so validation and acquisition are skipped.
func (uc *lendingUseCaseImpl) runBorrowSaga(ctx context.Context, saga *shared.BorrowSaga, notes string) (*borrowing.Record, error) {
	if saga.Status != shared.SagaAcquired {
		if err := uc.checkEligibility(ctx, saga.UserID, saga.ItemID); err != nil {
			return nil, uc.abandon(ctx, saga, err)
		}

		if err := uc.pool.TryAcquire(ctx, saga.ItemID); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return nil, uc.abandon(ctx, saga, ErrInsufficientAvailability)
			}
			return nil, uc.abandon(ctx, saga, shared.MapStorageErr(err, shared.ErrItemNotFound))
		}

		if err := uc.sagas.MarkAcquired(ctx, saga.Key, saga.LeaseToken, uc.clock.Now()); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				// Another request took the saga over; it never counted this copy.
				return nil, uc.releaseUnrecorded(ctx, saga, ErrBorrowInProgress)
			}
			return nil, uc.compensate(ctx, saga, shared.MapStorageErr(err, nil))
		}
	} else {
		slog.Info("resuming borrow saga with held capacity",
			"idempotency_key", saga.Key.String(),
			"item_id", saga.ItemID.String())
	}

	rec, err := borrowing.NewRecord(saga.BorrowingID, saga.UserID, saga.ItemID, uc.clock.Now(), uc.loanPeriod, notes)
	if err != nil {
		return nil, uc.compensate(ctx, saga, err)
	}

	if _, err = uc.ledger.Append(ctx, rec); err != nil {
		// The record id is fixed per saga, so a duplicate or an ambiguous failure is settled
		// by looking the record up before giving the copy back.
		existing, found := uc.appendedRecord(ctx, saga.BorrowingID)
		if !found {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return nil, shared.MapStorageErr(err, nil)
			}
			return nil, uc.compensate(ctx, saga, shared.MapStorageErr(err, nil))
		}
		rec = existing
	}

	if err := uc.sagas.Complete(ctx, saga.Key, saga.LeaseToken, uc.clock.Now()); err != nil {
		slog.Warn("borrow recorded but saga not completed; a retry with the same key will resume",
			"idempotency_key", saga.Key.String(),
			"borrowing_id", rec.ID().String(),
			"error", err.Error())
	}

	uc.publish(ctx, shared.LendingEvent{
		Type:        shared.EventItemBorrowed,
		BorrowingID: rec.ID(),
		UserID:      rec.UserID(),
		ItemID:      rec.ItemID(),
		DueDate:     ptr.Of(rec.DueDate()),
	})
	return rec, nil
}

func (uc *lendingUseCaseImpl) appendedRecord(ctx context.Context, id uuid.UUID) (*borrowing.Record, bool) {
	dctx, cancel := uc.detached(ctx)
	defer cancel()

	rec, err := uc.ledger.Get(dctx, id)
	if err != nil {
		return nil, false
	}
	return rec, true
}

func (uc *lendingUseCaseImpl) checkEligibility(ctx context.Context, userID, itemID uuid.UUID) error {
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return shared.MapStorageErr(err, shared.ErrUserNotFound)
	}
	if !u.CanBorrow() {
		return ErrUserNotEligible
	}
	if _, err := uc.catalog.FindByID(ctx, itemID); err != nil {
		return shared.MapStorageErr(err, shared.ErrItemNotFound)
	}
	return nil
}

// abandon ends a saga that never acquired capacity so the key can be retried.
func (uc *lendingUseCaseImpl) abandon(ctx context.Context, saga *shared.BorrowSaga, cause error) error {
	dctx, cancel := uc.detached(ctx)
	defer cancel()

	if err := uc.sagas.MarkCompensated(dctx, saga.Key, saga.LeaseToken, uc.clock.Now()); err != nil {
		slog.Warn("failed to close borrow saga",
			"idempotency_key", saga.Key.String(),
			"error", err.Error())
	}
	return cause
}

// compensate gives back the copy held by saga. The saga is closed under its lease token
// before the release; if that fails the copy stays with the saga, for a resume after the
// lease or for whichever request took it over.
func (uc *lendingUseCaseImpl) compensate(ctx context.Context, saga *shared.BorrowSaga, cause error) error {
	dctx, cancel := uc.detached(ctx)
	defer cancel()

	if err := uc.sagas.MarkCompensated(dctx, saga.Key, saga.LeaseToken, uc.clock.Now()); err != nil {
		slog.Warn("borrow saga not closed; copy remains held by saga",
			"idempotency_key", saga.Key.String(),
			"item_id", saga.ItemID.String(),
			"cause", cause.Error(),
			"error", err.Error())
		return cause
	}
	uc.giveBack(dctx, saga, cause)
	return cause
}

// releaseUnrecorded gives back a copy the saga never recorded and leaves the saga alone.
func (uc *lendingUseCaseImpl) releaseUnrecorded(ctx context.Context, saga *shared.BorrowSaga, cause error) error {
	dctx, cancel := uc.detached(ctx)
	defer cancel()

	uc.giveBack(dctx, saga, cause)
	return cause
}

func (uc *lendingUseCaseImpl) giveBack(ctx context.Context, saga *shared.BorrowSaga, cause error) {
	if err := uc.pool.Release(ctx, saga.ItemID); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			uc.logOverRelease(saga.ItemID, err)
		}
		slog.Error("borrow compensation failed to release copy; availability undercounted",
			"idempotency_key", saga.Key.String(),
			"item_id", saga.ItemID.String(),
			"cause", cause.Error(),
			"error", err.Error())
		return
	}

	uc.publish(ctx, shared.LendingEvent{
		Type:        shared.EventBorrowCompensated,
		BorrowingID: saga.BorrowingID,
		UserID:      saga.UserID,
		ItemID:      saga.ItemID,
	})
}

func (uc *lendingUseCaseImpl) Return(ctx context.Context, req ReturnRequest) (rec *borrowing.Record, err error) {
	start := time.Now()
	defer func() { uc.observe(ctx, "return", start, err) }()

	if req.Notes != nil {
		if err = borrowing.ValidateNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	rec, err = uc.ledger.Get(ctx, req.BorrowingID)
	if err != nil {
		return nil, shared.MapStorageErr(err, shared.ErrBorrowingNotFound)
	}
	if !req.Actor.mayActFor(rec.UserID()) {
		return nil, shared.ErrNotPermitted
	}
	if rec.IsReturned() {
		return nil, ErrAlreadyReturned
	}

	returnDate := ptr.Or(req.ReturnDate, uc.clock.Now())
	if returnDate.Before(rec.BorrowDate()) {
		return nil, ErrInvalidReturnDate
	}
	fee := uc.fees.Compute(rec.DueDate(), returnDate)

	// The ledger is marked first: a crash before the release undercounts availability
	// instead of overselling.
	if err = uc.ledger.MarkReturned(ctx, rec.ID(), returnDate, fee, req.Notes); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrAlreadyReturned
		}
		return nil, shared.MapStorageErr(err, shared.ErrBorrowingNotFound)
	}
	if err = rec.MarkReturned(returnDate, fee, req.Notes); err != nil {
		return nil, err
	}

	dctx, cancel := uc.detached(ctx)
	defer cancel()
	if rerr := uc.pool.Release(dctx, rec.ItemID()); rerr != nil {
		if infra.IsKind(rerr, infra.KindConflict) {
			uc.logOverRelease(rec.ItemID(), rerr)
			return nil, errs.Mark(rerr, ErrOverRelease)
		}
		slog.Error("borrowing returned but copy not released; availability undercounted",
			"borrowing_id", rec.ID().String(),
			"item_id", rec.ItemID().String(),
			"error", rerr.Error())
	}

	uc.publish(dctx, shared.LendingEvent{
		Type:         shared.EventItemReturned,
		BorrowingID:  rec.ID(),
		UserID:       rec.UserID(),
		ItemID:       rec.ItemID(),
		ReturnDate:   &returnDate,
		LateFeeCents: ptr.Of(fee.Cents()),
	})
	return rec, nil
}

// Extend adds days to the stored due date. The write is conditional on the due date read,
// so concurrent extensions both apply instead of one overwriting the other.
func (uc *lendingUseCaseImpl) Extend(ctx context.Context, req ExtendRequest) (rec *borrowing.Record, err error) {
	start := time.Now()
	defer func() { uc.observe(ctx, "extend", start, err) }()

	if err = borrowing.ValidateExtensionDays(req.AdditionalDays); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxExtendAttempts; attempt++ {
		rec, err = uc.ledger.Get(ctx, req.BorrowingID)
		if err != nil {
			return nil, shared.MapStorageErr(err, shared.ErrBorrowingNotFound)
		}
		if !req.Actor.mayActFor(rec.UserID()) {
			return nil, shared.ErrNotPermitted
		}

		previousDue := rec.DueDate()
		if err = rec.ExtendDueDate(req.AdditionalDays); err != nil {
			return nil, err
		}

		err = uc.ledger.ExtendDueDate(ctx, rec.ID(), rec.DueDate(), previousDue)
		switch {
		case err == nil:
			uc.publish(ctx, shared.LendingEvent{
				Type:           shared.EventBorrowingExtended,
				BorrowingID:    rec.ID(),
				UserID:         rec.UserID(),
				ItemID:         rec.ItemID(),
				DueDate:        ptr.Of(rec.DueDate()),
				AdditionalDays: req.AdditionalDays,
			})
			return rec, nil
		case infra.IsKind(err, infra.KindStaleWrite):
			continue
		case infra.IsKind(err, infra.KindConflict):
			return nil, ErrAlreadyReturned
		default:
			return nil, shared.MapStorageErr(err, shared.ErrBorrowingNotFound)
		}
	}
	return nil, ErrConcurrentExtension
}

func (uc *lendingUseCaseImpl) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), uc.detachedTimeout)
}

func (uc *lendingUseCaseImpl) publish(ctx context.Context, evt shared.LendingEvent) {
	evt.ID = uuid.New()
	evt.OccurredAt = uc.clock.Now()
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		slog.Warn("failed to publish lending event",
			"type", string(evt.Type),
			"borrowing_id", evt.BorrowingID.String(),
			"error", err.Error())
	}
}

func (uc *lendingUseCaseImpl) logOverRelease(itemID uuid.UUID, err error) {
	slog.Error("DEFECT: capacity release exceeded total copies",
		"item_id", itemID.String(),
		"error", err.Error(),
		"stack", errs.ExtractStackLines(err, 12))
}

func (uc *lendingUseCaseImpl) observe(ctx context.Context, operation string, start time.Time, err error) {
	labels := map[string]string{
		"operation": operation,
		"outcome":   outcomeOf(err),
	}
	uc.metrics.RecordDuration(ctx, OperationDurationMetric, time.Since(start), labels)
	uc.metrics.IncrementCounter(ctx, OperationTotalMetric, labels)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errs.Is(err, ErrInsufficientAvailability):
		return "insufficient_availability"
	case errs.Is(err, ErrAlreadyReturned):
		return "already_returned"
	case errs.Is(err, shared.ErrItemNotFound),
		errs.Is(err, shared.ErrUserNotFound),
		errs.Is(err, shared.ErrBorrowingNotFound):
		return "not_found"
	case errs.Is(err, ErrInvalidExtension),
		errs.Is(err, ErrInvalidReturnDate),
		errs.Is(err, ErrUserNotEligible),
		errs.Is(err, borrowing.ErrNotesTooLong):
		return "rejected"
	case errs.Is(err, shared.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "error"
	}
}

func borrowRequestHash(userID, itemID uuid.UUID, notes string) string {
	sum := sha256.Sum256([]byte(userID.String() + "|" + itemID.String() + "|" + notes))
	return hex.EncodeToString(sum[:])
}
