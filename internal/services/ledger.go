package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"coinlings/internal/domain/dto"
	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"coinlings/internal/world"
	"github.com/google/uuid"
)

var (
	creditCategories = []string{"Salary", "Allowance", "Business", "Gift Received", "Refund", "Investment"}
	debitCategories  = []string{
		"Food & Dining", "Transportation", "Clothes", "Entertainment",
		"Bills & Utilities", "Healthcare", "Education", "Gift Given",
	}
)

// amounts are kept to cents
const amountPlaces = 2

type LedgerService struct {
	log           *slog.Logger
	store         repository.Store
	reconciler    *Reconciler
	maxPopulation int
	recorder      Recorder
	now           func() time.Time
}

func NewLedgerService(log *slog.Logger, store repository.Store, reconciler *Reconciler, maxPopulation int,
	recorder Recorder) *LedgerService {
	return &LedgerService{
		log:           log,
		store:         store,
		reconciler:    reconciler,
		maxPopulation: maxPopulation,
		recorder:      recorderOrNop(recorder),
		now:           time.Now,
	}
}

// Record stores a transaction, moves the balance and reconciles the population in one
// unit of work. Any failure leaves the ledger, the balance and the world untouched.
func (s *LedgerService) Record(ctx context.Context, ownerID uuid.UUID, in dto.RecordTransactionRequest) (dto.RecordTransactionResponse, error) {
	const op = "services.LedgerService.Record"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.String("kind", string(in.Kind)),
		slog.String("amount", in.Amount.String()),
	)

	if !in.Kind.Valid() {
		return dto.RecordTransactionResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidKind)
	}
	amount := in.Amount.Round(amountPlaces)
	if !amount.IsPositive() {
		return dto.RecordTransactionResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}

	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	t := models.Transaction{
		OwnerID:  ownerID,
		Kind:     in.Kind,
		Amount:   amount,
		Date:     date,
		Notes:    strings.TrimSpace(in.Notes),
		Category: strings.TrimSpace(in.Category),
	}
	if in.Kind == models.KindDebit {
		t.WorthIt = in.WorthIt
	}

	log.Info("recording transaction")

	var out dto.RecordTransactionResponse
	var diff Diff
	err := s.store.WithinOwnerTx(ctx, ownerID, func(ctx context.Context, tx repository.OwnerTx) error {
		user, err := tx.LockedUser(ctx)
		if err != nil {
			return err
		}

		saved, err := tx.InsertTransaction(ctx, t)
		if err != nil {
			return err
		}

		balance := user.Balance.Add(saved.Signed())
		if err := tx.SetBalance(ctx, balance); err != nil {
			return err
		}

		diff, err = s.reconciler.Reconcile(ctx, tx, ownerID, world.DesiredPopulation(balance, s.maxPopulation))
		if err != nil {
			return err
		}

		out = dto.RecordTransactionResponse{
			Transaction: saved,
			Balance:     balance,
			Created:     diff.Created,
			Retired:     diff.Retired,
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record transaction", slog.String("error", err.Error()))
		return dto.RecordTransactionResponse{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	s.recorder.TransactionRecorded(string(t.Kind))
	diff.record(s.recorder)

	log.Info("transaction recorded",
		slog.String("balance", out.Balance.String()),
		slog.Int("created", len(out.Created)),
		slog.Int("retired", len(out.Retired)),
	)

	return out, nil
}

// List returns the owner's transactions, newest first.
func (s *LedgerService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Transaction, error) {
	const op = "services.LedgerService.List"

	txs, err := s.store.ListTransactions(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	return txs, nil
}

func (s *LedgerService) SetWorthIt(ctx context.Context, ownerID, id uuid.UUID, worthIt bool) (models.Transaction, error) {
	const op = "services.LedgerService.SetWorthIt"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
		slog.String("transaction_id", id.String()),
	)

	t, err := s.store.SetWorthIt(ctx, ownerID, id, worthIt)
	if err != nil {
		log.Info("failed to update worth_it", slog.String("error", err.Error()))
		return models.Transaction{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	log.Info("worth_it updated", slog.Bool("worth_it", worthIt))

	return t, nil
}

// Categories returns the default list for a kind and the owner's own categories of that kind.
func (s *LedgerService) Categories(ctx context.Context, ownerID uuid.UUID, kind models.TransactionKind) (dto.CategoriesResponse, error) {
	const op = "services.LedgerService.Categories"

	if !kind.Valid() {
		return dto.CategoriesResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidKind)
	}

	defaults := debitCategories
	if kind == models.KindCredit {
		defaults = creditCategories
	}

	used, err := s.store.DistinctCategories(ctx, ownerID, kind)
	if err != nil {
		return dto.CategoriesResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	custom := make([]string, 0, len(used))
	for _, c := range used {
		if slices.Contains(creditCategories, c) || slices.Contains(debitCategories, c) {
			continue
		}
		custom = append(custom, c)
	}

	return dto.CategoriesResponse{Default: slices.Clone(defaults), Custom: custom}, nil
}

func (s *LedgerService) Summary(ctx context.Context, ownerID uuid.UUID) (dto.AnalyticsSummary, error) {
	const op = "services.LedgerService.Summary"

	txs, err := s.store.ListTransactions(ctx, ownerID)
	if err != nil {
		return dto.AnalyticsSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	return BuildSummary(txs, s.now()), nil
}
