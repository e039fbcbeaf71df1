// Package storage provides primitives for connecting to and interacting with data storage systems.
// It defines the Storage interface along with a PostgreSQL implementation that persists the
// addressed shop records, manages ledger accounts, and executes the purchase transitions as
// single database transactions so payment and history mutation commit or fail together.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shop_ledger/internal/models"
	"shop_ledger/internal/pkg/authz"
	"shop_ledger/internal/pkg/logger"
	"shop_ledger/internal/pkg/security"
	"shop_ledger/internal/record"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	createAccountQuery = `INSERT INTO shop.accounts (identity, username, password_hash, balance) VALUES ($1, $2, $3, $4);`
	checkAccountQuery  = `SELECT identity, password_hash, balance FROM shop.accounts WHERE username = $1;`
	getAccountQuery    = `SELECT username, balance FROM shop.accounts WHERE identity = $1;`

	createRecordQuery        = `INSERT INTO shop.records (address, kind, capacity, payload) VALUES ($1, $2, $3, $4);`
	loadRecordQuery          = `SELECT kind, capacity, payload FROM shop.records WHERE address = $1`
	loadRecordForUpdateQuery = loadRecordQuery + ` FOR UPDATE`
	updateRecordQuery        = `UPDATE shop.records SET payload = $1, updated_at = NOW() WHERE address = $2;`

	creditBalanceQuery = `UPDATE shop.accounts SET balance = balance + $1 WHERE identity = $2;`
)

// bootstrapQueries create the schema on a fresh database. Statements are
// idempotent so a restart against a provisioned database is a no-op.
var bootstrapQueries = []string{
	`CREATE SCHEMA IF NOT EXISTS shop;`,
	`CREATE TABLE IF NOT EXISTS shop.accounts (
		identity BYTEA PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		balance BIGINT NOT NULL CHECK (balance >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS shop.records (
		address BYTEA PRIMARY KEY,
		kind SMALLINT NOT NULL,
		capacity INTEGER NOT NULL,
		payload BYTEA NOT NULL CHECK (octet_length(payload) <= capacity),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
}

// Storage defines the methods required for data storage operations.
type Storage interface {
	// Close closes the database connection.
	Close()

	// Bootstrap applies the schema.
	Bootstrap(ctx context.Context) error

	// Account methods.
	CheckAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	GetAccountInfo(ctx context.Context, identity record.Identity) (*models.Account, error)

	// Catalog operations.
	InitializeShop(ctx context.Context, caller record.Identity) (*record.Shop, error)
	AddItem(ctx context.Context, caller record.Identity, item *record.Item) (*record.Item, error)

	// Purchase transitions.
	FirstPurchase(ctx context.Context, buyer record.Identity, itemID uint64) (*record.PurchaseRecord, error)
	SubsequentPurchase(ctx context.Context, buyer record.Identity, itemID uint64) (*record.PurchaseRecord, error)

	// History retrieval.
	GetHistory(ctx context.Context, owner record.Identity) (*record.PurchaseHistory, error)
}

// PostgreSQL implements the Storage interface using a PostgreSQL database.
type PostgreSQL struct {
	db  *sql.DB        // Connection to the database.
	log *logger.Logger // Logger for recording events and errors.
}

// NewPostgreSQL creates a new PostgreSQL instance with the provided connection string and logger.
// It opens the connection and pings the database to ensure connectivity.
func NewPostgreSQL(configDBString string, l *logger.Logger) (*PostgreSQL, error) {
	db, err := sql.Open("pgx", configDBString)
	if err != nil {
		l.Sugar().Errorf("Failed to open a database: %s", err)
		return &PostgreSQL{db: db, log: l}, err
	}

	const defaultTimeout = 10 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		l.Sugar().Errorf("Database ping failed: %s", err)
		return &PostgreSQL{db: db, log: l}, err
	}

	return &PostgreSQL{db: db, log: l}, nil
}

// Close closes the database connection if it is open.
func (postgresql *PostgreSQL) Close() {
	if postgresql.db != nil {
		postgresql.db.Close()
	}
}

// Bootstrap applies the schema statements one by one.
func (postgresql *PostgreSQL) Bootstrap(ctx context.Context) error {
	for _, query := range bootstrapQueries {
		if _, err := postgresql.db.ExecContext(ctx, query); err != nil {
			postgresql.log.Sugar().Errorf("Failed to execute a bootstrap statement: %s", err)
			return err
		}
	}
	return nil
}

// CheckAccount verifies the account's credentials by retrieving the identity and encrypted
// password, then checking the provided password against the stored hash. A zero identity on
// return means no account exists under that username yet.
func (postgresql *PostgreSQL) CheckAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	var identity []byte
	var encryptedPassword string

	err := postgresql.db.QueryRowContext(ctx, checkAccountQuery, account.Username).Scan(&identity, &encryptedPassword, &account.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return account, nil
	}
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query checkAccountQuery: %s", err)
		return account, err
	}
	copy(account.Identity[:], identity)

	err = security.CheckPassword(encryptedPassword, account.Password)
	if err != nil {
		postgresql.log.Sugar().Errorf(err.Error())
		return account, err
	}

	return account, nil
}

// CreateAccount registers a new ledger account by deriving its identity from the username,
// hashing the password, and inserting the row with the starting balance.
func (postgresql *PostgreSQL) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.Identity = record.DeriveIdentity(account.Username)
	encryptedPassword := security.HashPassword(account.Password)

	_, err := postgresql.db.ExecContext(ctx, createAccountQuery, account.Identity[:], account.Username, encryptedPassword, account.Balance)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query createAccountQuery: %s", err)
		return account, err
	}
	return account, nil
}

// GetAccountInfo retrieves the username and balance for a given identity.
func (postgresql *PostgreSQL) GetAccountInfo(ctx context.Context, identity record.Identity) (*models.Account, error) {
	account := &models.Account{
		Identity: identity,
	}

	err := postgresql.db.QueryRowContext(ctx, getAccountQuery, identity[:]).Scan(&account.Username, &account.Balance)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query getAccountQuery: %s", err)
		return account, err
	}

	return account, nil
}

// createRecord allocates a record at its derived address. A unique violation on the
// address column signals that the address is already occupied.
func (postgresql *PostgreSQL) createRecord(ctx context.Context, tx *sql.Tx, rec *record.Record) error {
	_, err := tx.ExecContext(ctx, createRecordQuery, rec.Address[:], int16(rec.Kind), rec.Capacity, rec.Payload)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query createRecordQuery: %s", err)
		return err
	}
	return nil
}

// loadRecord retrieves the record stored at the given address within a transaction.
func (postgresql *PostgreSQL) loadRecord(ctx context.Context, tx *sql.Tx, address record.Address, query string) (*record.Record, error) {
	rec := &record.Record{
		Address: address,
	}
	var kind int16

	err := tx.QueryRowContext(ctx, query, address[:]).Scan(&kind, &rec.Capacity, &rec.Payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			postgresql.log.Sugar().Errorf("Failed to execute a query loadRecordQuery: %s", err)
		}
		return nil, err
	}
	rec.Kind = record.Kind(kind)

	return rec, nil
}

// updateRecordPayload rewrites the payload of an existing record. The capacity check
// constraint rejects a payload past the record's allocation.
func (postgresql *PostgreSQL) updateRecordPayload(ctx context.Context, tx *sql.Tx, address record.Address, payload []byte) error {
	result, err := tx.ExecContext(ctx, updateRecordQuery, payload, address[:])
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query updateRecordQuery: %s", err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute RowsAffected in updateRecordQuery: %s", err)
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// creditBalance moves the balance of one account by delta. The balance check constraint
// declines a debit past the available funds, which aborts the surrounding transaction.
func (postgresql *PostgreSQL) creditBalance(ctx context.Context, tx *sql.Tx, identity record.Identity, delta int64) error {
	result, err := tx.ExecContext(ctx, creditBalanceQuery, delta, identity[:])
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query creditBalanceQuery: %s", err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute RowsAffected in creditBalanceQuery: %s", err)
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// transferPrice debits the buyer and credits the admin by the item price.
func (postgresql *PostgreSQL) transferPrice(ctx context.Context, tx *sql.Tx, buyer, admin record.Identity, price uint64) error {
	if err := postgresql.creditBalance(ctx, tx, buyer, -int64(price)); err != nil {
		return err
	}
	if err := postgresql.creditBalance(ctx, tx, admin, int64(price)); err != nil {
		return err
	}
	return nil
}

// loadShop retrieves and decodes the shop singleton within a transaction.
func (postgresql *PostgreSQL) loadShop(ctx context.Context, tx *sql.Tx, query string) (*record.Record, *record.Shop, error) {
	shopRec, err := postgresql.loadRecord(ctx, tx, record.DeriveShopAddress(), query)
	if err != nil {
		return nil, nil, err
	}
	shop, err := record.DecodeShop(shopRec.Payload)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to decode the shop record: %s", err)
		return nil, nil, err
	}
	return shopRec, shop, nil
}

// loadItem retrieves and decodes the item stored at the address derived from itemID.
func (postgresql *PostgreSQL) loadItem(ctx context.Context, tx *sql.Tx, itemID uint64) (*record.Item, error) {
	itemRec, err := postgresql.loadRecord(ctx, tx, record.DeriveItemAddress(itemID), loadRecordQuery)
	if err != nil {
		return nil, err
	}
	item, err := record.DecodeItem(itemRec.Payload)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to decode an item record: %s", err)
		return nil, err
	}
	return item, nil
}

// InitializeShop creates the shop singleton at its fixed derived address and sets the
// caller as admin. A second call fails on the address collision.
func (postgresql *PostgreSQL) InitializeShop(ctx context.Context, caller record.Identity) (*record.Shop, error) {
	shop := &record.Shop{Admin: caller}
	rec := record.NewShopRecord(shop)

	_, err := postgresql.db.ExecContext(ctx, createRecordQuery, rec.Address[:], int16(rec.Kind), rec.Capacity, rec.Payload)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query createRecordQuery: %s", err)
		return nil, err
	}

	return shop, nil
}

// AddItem publishes a catalog item. It locks the shop record, verifies the caller is the
// admin, creates the item record at the address derived from its id, and increments the
// item counter, all in one transaction.
func (postgresql *PostgreSQL) AddItem(ctx context.Context, caller record.Identity, item *record.Item) (*record.Item, error) {
	tx, err := postgresql.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	shopRec, shop, err := postgresql.loadShop(ctx, tx, loadRecordForUpdateQuery)
	if err != nil {
		return nil, err
	}

	if !authz.IsAdmin(shop, caller) {
		return nil, record.ErrUnauthorized
	}

	itemRec, err := record.NewItemRecord(item)
	if err != nil {
		return nil, err
	}
	if err = postgresql.createRecord(ctx, tx, itemRec); err != nil {
		return nil, err
	}

	shop.ItemCount++
	if err = postgresql.updateRecordPayload(ctx, tx, shopRec.Address, record.EncodeShop(shop)); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return item, nil
}

// FirstPurchase executes the first purchase transition of a buyer: it transfers the item
// price to the admin and creates the buyer's history record holding the new entry.
// The transfer and the creation commit or fail as one unit; a buyer who already owns a
// history hits the address collision and is routed to SubsequentPurchase by the caller.
func (postgresql *PostgreSQL) FirstPurchase(ctx context.Context, buyer record.Identity, itemID uint64) (*record.PurchaseRecord, error) {
	tx, err := postgresql.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item, err := postgresql.loadItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	_, shop, err := postgresql.loadShop(ctx, tx, loadRecordQuery)
	if err != nil {
		return nil, err
	}

	if err = postgresql.transferPrice(ctx, tx, buyer, shop.Admin, item.Price); err != nil {
		return nil, err
	}

	purchase := record.PurchaseRecord{ItemID: item.ID, Timestamp: time.Now().Unix()}
	if err = postgresql.createRecord(ctx, tx, record.NewHistoryRecord(buyer, purchase)); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &purchase, nil
}

// SubsequentPurchase executes a purchase for a buyer who already owns a history record.
// It locks the history, verifies ownership, transfers the item price, and appends the new
// entry; a full history aborts the transaction with record.ErrCapacityExceeded before any
// balance moves are committed.
func (postgresql *PostgreSQL) SubsequentPurchase(ctx context.Context, buyer record.Identity, itemID uint64) (*record.PurchaseRecord, error) {
	tx, err := postgresql.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item, err := postgresql.loadItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	_, shop, err := postgresql.loadShop(ctx, tx, loadRecordQuery)
	if err != nil {
		return nil, err
	}

	historyRec, err := postgresql.loadRecord(ctx, tx, record.DeriveHistoryAddress(buyer), loadRecordForUpdateQuery)
	if err != nil {
		return nil, err
	}
	history, err := record.DecodeHistory(historyRec.Payload)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to decode a history record: %s", err)
		return nil, err
	}

	if !authz.OwnsHistory(history, buyer) {
		return nil, record.ErrInvalidHistoryOwner
	}

	if err = postgresql.transferPrice(ctx, tx, buyer, shop.Admin, item.Price); err != nil {
		return nil, err
	}

	purchase := record.PurchaseRecord{ItemID: item.ID, Timestamp: time.Now().Unix()}
	if err = record.AppendPurchase(historyRec, purchase); err != nil {
		return nil, err
	}
	if err = postgresql.updateRecordPayload(ctx, tx, historyRec.Address, historyRec.Payload); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &purchase, nil
}

// GetHistory retrieves and decodes the purchase history owned by the given identity.
func (postgresql *PostgreSQL) GetHistory(ctx context.Context, owner record.Identity) (*record.PurchaseHistory, error) {
	tx, err := postgresql.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	historyRec, err := postgresql.loadRecord(ctx, tx, record.DeriveHistoryAddress(owner), loadRecordQuery)
	if err != nil {
		return nil, err
	}
	history, err := record.DecodeHistory(historyRec.Payload)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to decode a history record: %s", err)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return history, nil
}
