// Package service contains HTTP handler implementations for the shop ledger API endpoints.
// It orchestrates request parsing, calls the underlying business logic in the app package,
// handles errors (including database-specific errors), and writes appropriate HTTP responses.
// Address collisions, missing records, and declined transfers surface here as distinct
// error kinds so clients can tell them apart.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"shop_ledger/internal/app"
	"shop_ledger/internal/models"
	"shop_ledger/internal/pkg/auth"
	"shop_ledger/internal/pkg/logger"
	"shop_ledger/internal/record"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgerrcode"
	pgx_pgconn "github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const requestTimeout = 10 * time.Second

// handlers aggregates dependencies needed by HTTP handlers,
// including the application business logic and logger.
type handlers struct {
	app *app.App
	log *logger.Logger
}

// newHandlers initializes a new handlers instance with the provided app and logger dependencies.
func newHandlers(app *app.App, l *logger.Logger) *handlers {
	return &handlers{app: app, log: l}
}

// authHandler handles account authentication requests.
// It reads the request body, unmarshals it into an AuthRequest,
// invokes the authentication process, and returns a JSON response with a token.
func (handlers *handlers) authHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var authRequest models.AuthRequest
	var authResponse models.AuthResponse

	requestBody, err := io.ReadAll(req.Body)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusBadRequest)
		return
	}

	if err = json.Unmarshal(requestBody, &authRequest); err != nil {
		writeErrorResponse(res, err.Error(), http.StatusBadRequest)
		return
	}

	var pgError *pgx_pgconn.PgError
	authResponse.Token, err = handlers.app.ProcessAuth(ctx, authRequest)
	if err != nil {
		if ok := errors.As(err, &pgError); ok && pgError.Code == pgerrcode.UniqueViolation {
			writeErrorResponse(res, "account with provided name already exists", http.StatusUnauthorized)
			return
		}

		if errors.Is(err, app.ErrMissingUsernameOrPassword) {
			writeErrorResponse(res, "missing username or password", http.StatusBadRequest)
			return
		}

		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			writeErrorResponse(res, "incorrect password", http.StatusUnauthorized)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := json.Marshal(authResponse)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	res.Write(result)
}

// initializeShopHandler creates the shop singleton with the caller as admin.
// A repeated call hits the address collision on the fixed shop address and returns a conflict.
func (handlers *handlers) initializeShopHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	caller, ok := req.Context().Value(auth.ContextIdentity).(record.Identity)
	if !ok || caller == (record.Identity{}) {
		writeErrorResponse(res, "unauthorized", http.StatusUnauthorized)
		return
	}

	var pgError *pgx_pgconn.PgError
	shop, err := handlers.app.ProcessInitializeShop(ctx, caller)
	if err != nil {
		if ok := errors.As(err, &pgError); ok && pgError.Code == pgerrcode.UniqueViolation {
			writeErrorResponse(res, "shop is already initialized", http.StatusConflict)
			return
		}

		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := json.Marshal(models.ShopResponse{Admin: shop.Admin.String(), ItemCount: shop.ItemCount})
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	res.Write(result)
}

// addItemHandler publishes a catalog item. Only the shop admin may call it;
// an item id whose address is already occupied returns a conflict.
func (handlers *handlers) addItemHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	caller, ok := req.Context().Value(auth.ContextIdentity).(record.Identity)
	if !ok || caller == (record.Identity{}) {
		writeErrorResponse(res, "unauthorized", http.StatusUnauthorized)
		return
	}

	var addItemRequest models.AddItemRequest

	requestBody, err := io.ReadAll(req.Body)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusBadRequest)
		return
	}

	if err = json.Unmarshal(requestBody, &addItemRequest); err != nil {
		writeErrorResponse(res, err.Error(), http.StatusBadRequest)
		return
	}

	var pgError *pgx_pgconn.PgError
	item, err := handlers.app.ProcessAddItem(ctx, caller, addItemRequest)
	if err != nil {
		if errors.Is(err, app.ErrMissingMetadataURI) {
			writeErrorResponse(res, "missing item metadata uri", http.StatusBadRequest)
			return
		}

		if errors.Is(err, app.ErrPriceTooLarge) {
			writeErrorResponse(res, "item price is too large", http.StatusBadRequest)
			return
		}

		if errors.Is(err, record.ErrMetadataTooLong) {
			writeErrorResponse(res, "metadata uri is too long", http.StatusBadRequest)
			return
		}

		if errors.Is(err, record.ErrUnauthorized) {
			writeErrorResponse(res, "only the shop admin can add items", http.StatusForbidden)
			return
		}

		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "shop is not initialized", http.StatusNotFound)
			return
		}

		if ok := errors.As(err, &pgError); ok && pgError.Code == pgerrcode.UniqueViolation {
			writeErrorResponse(res, "item id is already in use", http.StatusConflict)
			return
		}

		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := json.Marshal(models.ItemResponse{ID: item.ID, Price: item.Price, MetadataURI: item.MetadataURI})
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	res.Write(result)
}

// firstPurchaseHandler processes a buyer's first purchase.
// A buyer whose history record already exists is told to use the subsequent purchase endpoint.
func (handlers *handlers) firstPurchaseHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	buyer, ok := req.Context().Value(auth.ContextIdentity).(record.Identity)
	if !ok || buyer == (record.Identity{}) {
		writeErrorResponse(res, "unauthorized", http.StatusUnauthorized)
		return
	}

	itemID, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		writeErrorResponse(res, "invalid item id provided", http.StatusBadRequest)
		return
	}

	var pgError *pgx_pgconn.PgError
	purchase, err := handlers.app.ProcessFirstPurchase(ctx, buyer, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "unknown item id provided", http.StatusNotFound)
			return
		}

		if ok := errors.As(err, &pgError); ok && pgError.Code == pgerrcode.CheckViolation {
			writeErrorResponse(res, "insufficient funds to purchase the item", http.StatusBadRequest)
			return
		}

		if ok := errors.As(err, &pgError); ok && pgError.Code == pgerrcode.UniqueViolation {
			writeErrorResponse(res, "purchase history already exists, use the subsequent purchase endpoint", http.StatusConflict)
			return
		}

		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writePurchaseResponse(res, purchase)
}

// subsequentPurchaseHandler processes a purchase for a buyer with an existing history record.
func (handlers *handlers) subsequentPurchaseHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	buyer, ok := req.Context().Value(auth.ContextIdentity).(record.Identity)
	if !ok || buyer == (record.Identity{}) {
		writeErrorResponse(res, "unauthorized", http.StatusUnauthorized)
		return
	}

	itemID, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		writeErrorResponse(res, "invalid item id provided", http.StatusBadRequest)
		return
	}

	var pgError *pgx_pgconn.PgError
	purchase, err := handlers.app.ProcessSubsequentPurchase(ctx, buyer, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "unknown item id or no purchase history", http.StatusNotFound)
			return
		}

		if errors.Is(err, record.ErrInvalidHistoryOwner) {
			writeErrorResponse(res, "purchase history does not belong to the buyer", http.StatusForbidden)
			return
		}

		if errors.Is(err, record.ErrCapacityExceeded) {
			writeErrorResponse(res, "purchase history is full", http.StatusConflict)
			return
		}

		if ok := errors.As(err, &pgError); ok && pgError.Code == pgerrcode.CheckViolation {
			writeErrorResponse(res, "insufficient funds to purchase the item", http.StatusBadRequest)
			return
		}

		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writePurchaseResponse(res, purchase)
}

// infoHandler retrieves account information.
// It extracts the caller identity from the context, calls the business logic to obtain the
// balance and purchase history, and returns the information in JSON format.
func (handlers *handlers) infoHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	identity, ok := req.Context().Value(auth.ContextIdentity).(record.Identity)
	if !ok || identity == (record.Identity{}) {
		writeErrorResponse(res, "unauthorized", http.StatusUnauthorized)
		return
	}

	info, err := handlers.app.ProcessInfo(ctx, identity)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := json.Marshal(info)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	res.Write(result)
}

func writePurchaseResponse(res http.ResponseWriter, purchase *record.PurchaseRecord) {
	result, err := json.Marshal(models.PurchaseResponse{ItemID: purchase.ItemID, Timestamp: purchase.Timestamp})
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	res.Write(result)
}

func writeErrorResponse(res http.ResponseWriter, errorInfo string, statusCode int) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	json.NewEncoder(res).Encode(models.ErrorResponse{Errors: errorInfo})
}
