package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"launchpad/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS tokens (
	chain_id BIGINT NOT NULL,
	contract_address TEXT NOT NULL,
	name TEXT NOT NULL,
	ticker TEXT NOT NULL,
	decimals SMALLINT NOT NULL DEFAULT 18,
	creator TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	tx_hash TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, contract_address)
);
CREATE INDEX IF NOT EXISTS tokens_ticker_idx ON tokens (chain_id, lower(ticker));

CREATE TABLE IF NOT EXISTS liquidity_deposits (
	id UUID PRIMARY KEY,
	chain_id BIGINT NOT NULL,
	token TEXT NOT NULL,
	recipient TEXT NOT NULL,
	amount_token_desired NUMERIC(78,0) NOT NULL,
	amount_token_min NUMERIC(78,0) NOT NULL,
	amount_native_desired NUMERIC(78,0) NOT NULL,
	amount_native_min NUMERIC(78,0) NOT NULL,
	deadline BIGINT NOT NULL,
	status TEXT NOT NULL,
	tx_hash TEXT NOT NULL DEFAULT '',
	block_number BIGINT NOT NULL DEFAULT 0,
	amount_token NUMERIC(78,0),
	amount_native NUMERIC(78,0),
	liquidity NUMERIC(78,0),
	error TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store persists the launched-token registry and liquidity deposits.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// UpsertTokens inserts or updates registry entries.
func (s *Store) UpsertTokens(ctx context.Context, tokens []model.TokenRecord) error {
	if len(tokens) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, t := range tokens {
		batch.Queue(`
			INSERT INTO tokens (
				chain_id, contract_address, name, ticker, decimals, creator, description, image_url, tx_hash, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
			ON CONFLICT (chain_id, contract_address)
			DO UPDATE SET
				name = EXCLUDED.name,
				ticker = EXCLUDED.ticker,
				decimals = EXCLUDED.decimals,
				description = EXCLUDED.description,
				image_url = EXCLUDED.image_url,
				tx_hash = CASE WHEN EXCLUDED.tx_hash = '' THEN tokens.tx_hash ELSE EXCLUDED.tx_hash END,
				updated_at = now()
		`,
			int64(t.ChainID),
			strings.ToLower(t.Address),
			t.Name,
			t.Ticker,
			int16(t.Decimals),
			strings.ToLower(t.Creator),
			t.Description,
			t.ImageURL,
			t.TxHash,
			t.CreatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range tokens {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

const tokenColumns = `chain_id, contract_address, name, ticker, decimals, creator, description, image_url, tx_hash, created_at`

// ListTokens returns registry entries whose name or ticker contains search, newest first.
func (s *Store) ListTokens(ctx context.Context, chainID uint64, search string, limit int) ([]model.TokenRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE chain_id = $1 AND ($2::text = '' OR name ILIKE $3::text OR ticker ILIKE $3::text)
		ORDER BY created_at DESC
		LIMIT $4
	`, int64(chainID), search, likePattern(search), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TokenRecord
	for rows.Next() {
		record, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// FindToken resolves a registry entry by contract address or case-insensitive ticker.
func (s *Store) FindToken(ctx context.Context, chainID uint64, addressOrTicker string) (model.TokenRecord, bool, error) {
	key := strings.TrimSpace(addressOrTicker)
	if key == "" {
		return model.TokenRecord{}, false, nil
	}
	row := s.pool.QueryRow(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE chain_id = $1 AND (contract_address = lower($2::text) OR lower(ticker) = lower($2::text))
		ORDER BY (contract_address = lower($2::text)) DESC, created_at DESC
		LIMIT 1
	`, int64(chainID), key)
	record, err := scanToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TokenRecord{}, false, nil
		}
		return model.TokenRecord{}, false, err
	}
	return record, true, nil
}

// InsertDeposit records a pending deposit.
func (s *Store) InsertDeposit(ctx context.Context, chainID uint64, d model.LiquidityDeposit) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liquidity_deposits (
			id, chain_id, token, recipient, amount_token_desired, amount_token_min,
			amount_native_desired, amount_native_min, deadline, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
	`,
		d.ID,
		int64(chainID),
		strings.ToLower(d.Token),
		strings.ToLower(d.To),
		numeric(d.AmountTokenDesired),
		numeric(d.AmountTokenMin),
		numeric(d.AmountNativeDesired),
		numeric(d.AmountNativeMin),
		int64(d.Deadline),
		string(d.Status),
	)
	return err
}

// UpdateDeposit stores the outcome of a deposit.
func (s *Store) UpdateDeposit(ctx context.Context, d model.LiquidityDeposit) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE liquidity_deposits SET
			status = $2,
			tx_hash = $3,
			block_number = $4,
			amount_token = $5,
			amount_native = $6,
			liquidity = $7,
			error = $8,
			updated_at = now()
		WHERE id = $1
	`,
		d.ID,
		string(d.Status),
		d.TxHash,
		int64(d.BlockNumber),
		nullNumeric(d.AmountToken),
		nullNumeric(d.AmountNative),
		nullNumeric(d.Liquidity),
		d.Error,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit %s not found", d.ID)
	}
	return nil
}

func scanToken(row pgx.Row) (model.TokenRecord, error) {
	var (
		record   model.TokenRecord
		chainID  int64
		decimals int16
	)
	err := row.Scan(
		&chainID,
		&record.Address,
		&record.Name,
		&record.Ticker,
		&decimals,
		&record.Creator,
		&record.Description,
		&record.ImageURL,
		&record.TxHash,
		&record.CreatedAt,
	)
	if err != nil {
		return model.TokenRecord{}, err
	}
	record.ChainID = uint64(chainID)
	record.Decimals = uint8(decimals)
	return record, nil
}

func numeric(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, 0)
}

func nullNumeric(v *big.Int) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromBigInt(v, 0))
}

func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(search)) + "%"
}
