package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const entryColumns = `id, wallet_id, entry_type, amount, currency,
	balance_after, pending_balance_after, available_balance_after, status,
	reference_type, reference_id, counterparty_wallet_id, hold_id,
	idempotency_key, description, metadata, created_by, created_at`

// EntryRepository implements usecase.EntryRepository over the append-only
// ledger_entries table. Entries are only ever inserted; there is no update
// or delete path.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends an entry to the log. The unique index on idempotency_key is
// the last line of defense against double-writes that slip past the
// in-transaction duplicate check.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	metadata, err := metadataToJSON(entry.Metadata)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, `
		INSERT INTO ledger_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		entry.ID,
		entry.WalletID,
		string(entry.Type),
		decimalToNumeric(entry.Amount),
		entry.Currency,
		decimalToNumeric(entry.BalanceAfter),
		decimalToNumeric(entry.PendingBalanceAfter),
		decimalToNumeric(entry.AvailableBalanceAfter),
		string(entry.Status),
		nullIfEmpty(entry.ReferenceType),
		nullIfEmpty(entry.ReferenceID),
		nullIfEmpty(entry.CounterpartyWalletID),
		nullIfEmpty(entry.HoldID),
		entry.IdempotencyKey,
		entry.Description,
		metadata,
		entry.CreatedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateEntry
		}

		return err
	}

	return nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	return scanEntry(r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE id = $1`, id))
}

// GetByIdempotencyKey retrieves the entry written under key, inside the
// caller's transaction so it observes uncommitted writes from the same
// operation.
func (r *EntryRepository) GetByIdempotencyKey(ctx context.Context, tx usecase.Transaction, key string) (*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return scanEntry(pgxTx.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE idempotency_key = $1`, key))
}

// ListByHold returns the entries of one hold on one wallet, oldest first.
func (r *EntryRepository) ListByHold(ctx context.Context, tx usecase.Transaction, walletID, holdID string) ([]*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE wallet_id = $1 AND hold_id = $2
		ORDER BY created_at, id`, walletID, holdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByWallet returns a wallet's entries newest first, narrowed by the
// optional filter fields.
func (r *EntryRepository) ListByWallet(ctx context.Context, walletID string, filter domain.EntryFilter) ([]*domain.Entry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM ledger_entries WHERE wallet_id = $1`)

	args := []any{walletID}

	addCond := func(cond string, value any) {
		args = append(args, value)
		fmt.Fprintf(&sb, " AND "+cond, len(args))
	}

	if filter.Type != nil {
		addCond("entry_type = $%d", string(*filter.Type))
	}
	if filter.ReferenceType != "" {
		addCond("reference_type = $%d", filter.ReferenceType)
	}
	if filter.ReferenceID != "" {
		addCond("reference_id = $%d", filter.ReferenceID)
	}
	if filter.From != nil {
		addCond("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCond("created_at < $%d", *filter.To)
	}

	args = append(args, filter.Limit, filter.Offset)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListForReplay returns every entry for the wallet in creation order. Runs
// inside the caller's transaction so the replay and the wallet lock see the
// same snapshot.
func (r *EntryRepository) ListForReplay(ctx context.Context, tx usecase.Transaction, walletID string) ([]*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at, id`, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0)

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e            domain.Entry
		entryType    string
		status       string
		amount       pgtype.Numeric
		balance      pgtype.Numeric
		pending      pgtype.Numeric
		available    pgtype.Numeric
		refType      *string
		refID        *string
		counterparty *string
		holdID       *string
		metadata     []byte
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&e.ID,
		&e.WalletID,
		&entryType,
		&amount,
		&e.Currency,
		&balance,
		&pending,
		&available,
		&status,
		&refType,
		&refID,
		&counterparty,
		&holdID,
		&e.IdempotencyKey,
		&e.Description,
		&metadata,
		&e.CreatedBy,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	e.Type = domain.EntryType(entryType)
	e.Status = domain.EntryStatus(status)
	e.Amount = numericToDecimal(amount)
	e.BalanceAfter = numericToDecimal(balance)
	e.PendingBalanceAfter = numericToDecimal(pending)
	e.AvailableBalanceAfter = numericToDecimal(available)
	e.ReferenceType = derefOrEmpty(refType)
	e.ReferenceID = derefOrEmpty(refID)
	e.CounterpartyWalletID = derefOrEmpty(counterparty)
	e.HoldID = derefOrEmpty(holdID)
	e.CreatedAt = createdAt.Time

	if m, err := jsonToMetadata(metadata); err == nil {
		e.Metadata = m
	}

	return &e, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
