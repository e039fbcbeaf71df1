// Package app provides the core business logic for the shop ledger service.
// It handles account authentication, shop initialization, catalog publishing,
// the two purchase transitions, and account information retrieval.
// The package integrates with the storage layer for data persistence and uses the auth package for token generation.
// Logging functionality is provided via the logger package.
package app

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"shop_ledger/internal/models"
	"shop_ledger/internal/pkg/auth"
	"shop_ledger/internal/pkg/logger"
	"shop_ledger/internal/record"
	"shop_ledger/internal/storage"
)

// Predefined errors for invalid request parameters.
var (
	// ErrMissingUsernameOrPassword indicates that either the username or password is not provided.
	ErrMissingUsernameOrPassword = errors.New("app: missing username or password")
	// ErrMissingMetadataURI indicates that the item metadata URI is not provided.
	ErrMissingMetadataURI = errors.New("app: missing item metadata uri")
	// ErrPriceTooLarge indicates an item price past the range the transfer primitive supports.
	ErrPriceTooLarge = errors.New("app: item price exceeds the supported range")
)

// initialBalance is the asset balance granted to a newly registered account.
const initialBalance = 1000

// App encapsulates the application logic and dependencies required to process requests.
// It interacts with the storage layer and uses a logger for error and activity logging.
type App struct {
	db  storage.Storage // Database storage layer for persistent data operations.
	log *logger.Logger  // Logger for logging application events and errors.
}

// NewApp creates and returns a new instance of App with the provided storage and logger dependencies.
func NewApp(db storage.Storage, log *logger.Logger) *App {
	return &App{db: db, log: log}
}

// ProcessAuth handles account authentication by verifying credentials and generating a token.
// If no account exists under the username, it registers one with the starting balance.
func (app *App) ProcessAuth(ctx context.Context, req models.AuthRequest) (string, error) {
	if req.Username == "" || req.Password == "" {
		return "", ErrMissingUsernameOrPassword
	}

	account := &models.Account{
		Username: req.Username,
		Password: req.Password,
	}

	account, err := app.db.CheckAccount(ctx, account)
	if err != nil {
		return "", err
	}

	if account.Identity == (record.Identity{}) {
		account.Balance = initialBalance
		account, err = app.db.CreateAccount(ctx, account)
		if err != nil {
			return "", err
		}
	}

	token, err := auth.GenerateToken(account.Identity)
	if err != nil {
		return "", err
	}

	return token, nil
}

// ProcessInitializeShop creates the shop singleton with the caller as admin.
func (app *App) ProcessInitializeShop(ctx context.Context, caller record.Identity) (*record.Shop, error) {
	shop, err := app.db.InitializeShop(ctx, caller)
	if err != nil {
		return nil, err
	}

	return shop, nil
}

// ProcessAddItem validates the item payload and publishes it to the catalog.
// The item id may be any value; uniqueness is enforced by the address collision
// check. A zero price is a valid free item. The price must stay within int64
// range: the balance deltas are signed, and a larger value would wrap the
// buyer's debit into a credit.
func (app *App) ProcessAddItem(ctx context.Context, caller record.Identity, req models.AddItemRequest) (*record.Item, error) {
	if req.MetadataURI == "" {
		return nil, ErrMissingMetadataURI
	}
	if req.Price > math.MaxInt64 {
		return nil, ErrPriceTooLarge
	}

	item := &record.Item{
		ID:          req.ID,
		Price:       req.Price,
		MetadataURI: req.MetadataURI,
	}

	item, err := app.db.AddItem(ctx, caller, item)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// ProcessFirstPurchase executes the first purchase transition for a buyer without a history.
func (app *App) ProcessFirstPurchase(ctx context.Context, buyer record.Identity, itemID uint64) (*record.PurchaseRecord, error) {
	purchase, err := app.db.FirstPurchase(ctx, buyer, itemID)
	if err != nil {
		return nil, err
	}

	return purchase, nil
}

// ProcessSubsequentPurchase executes a purchase for a buyer who already owns a history.
func (app *App) ProcessSubsequentPurchase(ctx context.Context, buyer record.Identity, itemID uint64) (*record.PurchaseRecord, error) {
	purchase, err := app.db.SubsequentPurchase(ctx, buyer, itemID)
	if err != nil {
		return nil, err
	}

	return purchase, nil
}

// ProcessInfo retrieves the caller's balance and purchase history.
// A missing history record means the caller has not purchased yet, not an error.
func (app *App) ProcessInfo(ctx context.Context, identity record.Identity) (*models.InfoResponse, error) {
	account, err := app.db.GetAccountInfo(ctx, identity)
	if err != nil {
		return nil, err
	}

	info := &models.InfoResponse{
		Balance:   account.Balance,
		Purchases: []models.PurchaseResponse{},
	}

	history, err := app.db.GetHistory(ctx, identity)
	if errors.Is(err, sql.ErrNoRows) {
		return info, nil
	}
	if err != nil {
		return nil, err
	}

	for _, p := range history.Purchases {
		info.Purchases = append(info.Purchases, models.PurchaseResponse{ItemID: p.ItemID, Timestamp: p.Timestamp})
	}

	return info, nil
}
