package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
)

const walletColumns = `id, tenant_id, type, owner_ref, currency, status,
	balance, pending_balance, available_balance, version, metadata, created_at, updated_at`

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a new wallet. The unique ownership index turns concurrent
// first-use creations into exactly one row; losers see ErrWalletExists.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	metadata, err := metadataToJSON(wallet.Metadata)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO wallets (`+walletColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING`,
		wallet.ID,
		wallet.TenantID,
		string(wallet.Type),
		wallet.OwnerRef,
		wallet.Currency,
		string(wallet.Status),
		decimalToNumeric(wallet.Balance),
		decimalToNumeric(wallet.PendingBalance),
		decimalToNumeric(wallet.AvailableBalance),
		wallet.Version,
		metadata,
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWalletExists
	}

	return nil
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	return scanWallet(r.pool.QueryRow(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE id = $1`, id))
}

// GetByOwner retrieves a wallet by its ownership triple.
func (r *WalletRepository) GetByOwner(ctx context.Context, tenantID string, walletType domain.WalletType, ownerRef *string) (*domain.Wallet, error) {
	return scanWallet(r.pool.QueryRow(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE tenant_id = $1 AND type = $2 AND COALESCE(owner_ref, '') = COALESCE($3, '')`,
		tenantID, string(walletType), ownerRef))
}

// GetByIDForUpdate retrieves a wallet by ID with a FOR UPDATE lock.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return scanWallet(pgxTx.QueryRow(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE id = $1
		FOR UPDATE`, id))
}

// GetByIDsForUpdate locks multiple wallets. Rows are locked in ascending id
// order no matter how ids is ordered, so concurrent multi-wallet operations
// acquire locks in the same sequence and cannot deadlock each other.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}

	return wallets, rows.Err()
}

// UpdateBalances overwrites the three cached balance fields.
func (r *WalletRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, balance, pending, available decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE wallets
		SET balance = $2,
		    pending_balance = $3,
		    available_balance = $4,
		    version = version + 1,
		    updated_at = $5
		WHERE id = $1`,
		id,
		decimalToNumeric(balance),
		decimalToNumeric(pending),
		decimalToNumeric(available),
		timeToPgTimestamptz(updatedAt),
	)

	return err
}

// UpdateStatus transitions a wallet's lifecycle state.
func (r *WalletRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.WalletStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE wallets
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt))

	return err
}

// List lists a tenant's wallets, newest first.
func (r *WalletRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*domain.Wallet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}

	return wallets, rows.Err()
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		w         domain.Wallet
		walletT   string
		status    string
		balance   pgtype.Numeric
		pending   pgtype.Numeric
		available pgtype.Numeric
		metadata  []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&w.ID,
		&w.TenantID,
		&walletT,
		&w.OwnerRef,
		&w.Currency,
		&status,
		&balance,
		&pending,
		&available,
		&w.Version,
		&metadata,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	w.Type = domain.WalletType(walletT)
	w.Status = domain.WalletStatus(status)
	w.Balance = numericToDecimal(balance)
	w.PendingBalance = numericToDecimal(pending)
	w.AvailableBalance = numericToDecimal(available)
	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	if m, err := jsonToMetadata(metadata); err == nil {
		w.Metadata = m
	}

	return &w, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func metadataToJSON(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}

	return json.Marshal(m)
}

func jsonToMetadata(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return m, nil
}
