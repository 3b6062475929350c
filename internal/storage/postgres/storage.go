package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on; pgxmock
// implements it for tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type balanceRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Balances() repository.BalanceRepository {
	return &balanceRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'customer',
            balance NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            sku TEXT UNIQUE NOT NULL,
            game TEXT NOT NULL,
            name TEXT NOT NULL,
            item TEXT NOT NULL,
            provider TEXT NOT NULL,
            provider_code TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            reseller_price NUMERIC(12,2) NOT NULL DEFAULT 0,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            product_id BIGINT REFERENCES products(id),
            item TEXT NOT NULL,
            game_user_id TEXT NOT NULL DEFAULT '',
            zone_id TEXT NOT NULL DEFAULT '',
            game_username TEXT NOT NULL DEFAULT '',
            payment TEXT NOT NULL,
            cost NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL,
            provider TEXT NOT NULL,
            utr TEXT,
            fulfilled BOOLEAN NOT NULL DEFAULT FALSE,
            fulfilled_at TIMESTAMPTZ,
            external_order_id TEXT,
            failure_reason TEXT,
            payment_url TEXT,
            topup BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            order_id TEXT REFERENCES orders(id),
            type TEXT NOT NULL,
            amount NUMERIC(12,2) NOT NULL,
            reason TEXT NOT NULL DEFAULT '',
            balance_after NUMERIC(12,2) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_ledger_order_type ON ledger_entries(order_id, type) WHERE order_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_open ON orders(updated_at) WHERE status IN ('pending', 'processing')`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_user ON ledger_entries(user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, balance, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, role).Scan(&u.ID, &u.Balance, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, balance, created_at FROM users WHERE login=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, balance, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.Balance, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- ProductRepository implementation ---

const productColumns = `id, sku, game, name, item, provider, provider_code, price, reseller_price, active, created_at`

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku=$1`
	return r.scanProduct(r.storage.pool.QueryRow(ctx, query, sku))
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return r.scanProduct(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *productRepository) scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Game, &p.Name, &p.Item, &p.Provider, &p.ProviderCode,
		&p.Price, &p.ResellerPrice, &p.Active, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListActive(ctx context.Context, game string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE active AND ($1 = '' OR game = $1) ORDER BY game, price`
	rows, err := r.storage.pool.Query(ctx, query, game)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.SKU, &p.Game, &p.Name, &p.Item, &p.Provider, &p.ProviderCode,
			&p.Price, &p.ResellerPrice, &p.Active, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

// Topup orders carry no product; NULL is read back as zero.
const orderColumns = `id, user_id, COALESCE(product_id, 0), item, game_user_id, zone_id, game_username, payment, cost,
                      status, provider, utr, fulfilled, fulfilled_at, external_order_id, failure_reason,
                      payment_url, topup, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.ProductID, &o.Item, &o.GameUserID, &o.ZoneID, &o.GameUsername,
		&o.Payment, &o.Cost, &o.Status, &o.Provider, &o.UTR, &o.Fulfilled, &o.FulfilledAt,
		&o.ExternalOrderID, &o.FailureReason, &o.PaymentURL, &o.Topup, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const query = `INSERT INTO orders
                       (id, user_id, product_id, item, game_user_id, zone_id, game_username,
                        payment, cost, status, provider, topup)
                   VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, $8, $9, $10, $11, $12)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.UserID, order.ProductID, order.Item, order.GameUserID, order.ZoneID,
		order.GameUsername, order.Payment, order.Cost, order.Status, order.Provider, order.Topup,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) SetPaymentURL(ctx context.Context, id, paymentURL string) error {
	const query = `UPDATE orders SET payment_url=$2, updated_at=NOW() WHERE id=$1 AND status='pending'`
	tag, err := r.storage.pool.Exec(ctx, query, id, paymentURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, id)
	}
	return nil
}

func (r *orderRepository) MarkProcessing(ctx context.Context, id, utr string) error {
	const query = `UPDATE orders SET status='processing', utr=COALESCE(utr, $2), updated_at=NOW()
                   WHERE id=$1 AND status='pending'`
	tag, err := r.storage.pool.Exec(ctx, query, id, utr)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, id)
	}
	return nil
}

func (r *orderRepository) MarkCompleted(ctx context.Context, id, externalOrderID string, fulfilledAt time.Time) error {
	const query = `UPDATE orders SET status='completed', fulfilled=TRUE, fulfilled_at=$3,
                          external_order_id=$2, updated_at=NOW()
                   WHERE id=$1 AND status IN ('pending', 'processing')`
	tag, err := r.storage.pool.Exec(ctx, query, id, externalOrderID, fulfilledAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, id)
	}
	return nil
}

func (r *orderRepository) MarkFailed(ctx context.Context, id, reason string) error {
	const query = `UPDATE orders SET status='failed', failure_reason=$2, updated_at=NOW()
                   WHERE id=$1 AND status IN ('pending', 'processing')`
	tag, err := r.storage.pool.Exec(ctx, query, id, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, id)
	}
	return nil
}

// transitionConflict resolves why a guarded status update matched no rows.
func (r *orderRepository) transitionConflict(ctx context.Context, id string) error {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status.Terminal() {
		return domainErrors.ErrOrderTerminal
	}
	return domainErrors.ErrAlreadyExists
}

func (r *orderRepository) SelectBatchForReconciliation(ctx context.Context, minAge time.Duration, limit int) ([]model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + `
                    FROM orders
                    WHERE status IN ('pending', 'processing') AND updated_at < NOW() - $1::interval
                    ORDER BY updated_at
                    LIMIT $2
                    FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, minAge.String(), limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *order)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		// Touch the batch so the next pass skips it until minAge elapses
		// again.
		for i := range orders {
			if _, err := tx.Exec(ctx, `UPDATE orders SET updated_at=NOW() WHERE id=$1`, orders[i].ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// --- BalanceRepository implementation ---

func (r *balanceRepository) DebitForOrder(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	var balanceAfter decimal.Decimal
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// Conditional update: the balance check and the subtraction are one
		// statement, so two concurrent checkouts cannot both pass the check.
		const debitQuery = `UPDATE users SET balance = balance - $2 WHERE id=$1 AND balance >= $2 RETURNING balance`
		err := tx.QueryRow(ctx, debitQuery, userID, amount).Scan(&balanceAfter)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				var exists bool
				if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, userID).Scan(&exists); checkErr != nil {
					return checkErr
				}
				if !exists {
					return domainErrors.ErrNotFound
				}
				return domainErrors.ErrInsufficientBalance
			}
			return err
		}

		return r.appendEntryTx(ctx, tx, userID, &orderID, model.LedgerDeduction, amount, reason, balanceAfter)
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return balanceAfter, nil
}

func (r *balanceRepository) RefundForOrder(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	return r.credit(ctx, userID, orderID, model.LedgerRefund, amount, reason)
}

func (r *balanceRepository) CreditTopup(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	return r.credit(ctx, userID, orderID, model.LedgerTopup, amount, reason)
}

func (r *balanceRepository) credit(ctx context.Context, userID int64, orderID string, entryType model.LedgerEntryType, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	var balanceAfter decimal.Decimal
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const creditQuery = `UPDATE users SET balance = balance + $2 WHERE id=$1 RETURNING balance`
		err := tx.QueryRow(ctx, creditQuery, userID, amount).Scan(&balanceAfter)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		// The unique (order_id, type) index rejects a second refund or topup
		// for the same order; the rollback then undoes the credit above.
		return r.appendEntryTx(ctx, tx, userID, &orderID, entryType, amount, reason, balanceAfter)
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return balanceAfter, nil
}

func (r *balanceRepository) appendEntryTx(ctx context.Context, tx pgx.Tx, userID int64, orderID *string, entryType model.LedgerEntryType, amount decimal.Decimal, reason string, balanceAfter decimal.Decimal) error {
	const insertEntry = `INSERT INTO ledger_entries (user_id, order_id, type, amount, reason, balance_after)
                         VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, insertEntry, userID, orderID, entryType, amount, reason, balanceAfter); err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *balanceRepository) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	const query = `SELECT balance FROM users WHERE id=$1`
	var balance decimal.Decimal
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, domainErrors.ErrNotFound
		}
		return decimal.Decimal{}, err
	}
	return balance, nil
}

const ledgerColumns = `id, user_id, order_id, type, amount, reason, balance_after, created_at`

func (r *balanceRepository) LedgerByUser(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE user_id=$1 ORDER BY created_at DESC`
	return r.queryLedger(ctx, query, userID)
}

func (r *balanceRepository) LedgerByOrder(ctx context.Context, orderID string) ([]model.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE order_id=$1 ORDER BY created_at`
	return r.queryLedger(ctx, query, orderID)
}

func (r *balanceRepository) queryLedger(ctx context.Context, query string, arg any) ([]model.LedgerEntry, error) {
	rows, err := r.storage.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrderID, &e.Type, &e.Amount, &e.Reason, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
