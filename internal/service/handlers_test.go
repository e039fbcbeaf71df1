package service

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgerrcode"
	pgx_pgconn "github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shop_ledger/internal/app"
	"shop_ledger/internal/config"
	"shop_ledger/internal/models"
	"shop_ledger/internal/pkg/auth"
	"shop_ledger/internal/pkg/logger"
	"shop_ledger/internal/record"
	"shop_ledger/internal/storage/mocks"
)

func testRequest(t *testing.T, ts *httptest.Server, method, path string, requestBody []byte) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewBuffer(requestBody))
	require.NoError(t, err)

	client := &http.Client{}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func testRequestWithAuth(t *testing.T, ts *httptest.Server, method, path string, requestBody []byte, token string) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func newTestServer(t *testing.T) (*mocks.MockStorage, *httptest.Server) {
	l, err := logger.CreateLogger(config.LogLevel)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockDB := mocks.NewMockStorage(ctrl)

	appInstance := app.NewApp(mockDB, l)

	service := NewService(appInstance, config.ServerRunAddress, l)
	testServer := httptest.NewServer(service.NewRouter())
	t.Cleanup(testServer.Close)

	return mockDB, testServer
}

func TestAuthHandler_Gomock(t *testing.T) {
	mockDB, testServer := newTestServer(t)

	existing := record.DeriveIdentity("existing_user")

	type expectedData struct {
		expectedContentType string
		expectedStatusCode  int
		expectedBody        string
	}

	testCases := []struct {
		name        string
		requestBody []byte
		setupMock   func()
		expected    expectedData
	}{
		{
			name:        "Invalid JSON",
			requestBody: []byte("some body"),
			setupMock:   func() {},
			expected: expectedData{
				expectedContentType: "application/json",
				expectedStatusCode:  http.StatusBadRequest,
				expectedBody:        "{\"errors\":\"invalid character 's' looking for beginning of value\"}\n",
			},
		},
		{
			name:        "Missing username",
			requestBody: []byte(`{"username": "", "password": "pass"}`),
			setupMock:   func() {},
			expected: expectedData{
				expectedContentType: "application/json",
				expectedStatusCode:  http.StatusBadRequest,
				expectedBody:        "{\"errors\":\"missing username or password\"}\n",
			},
		},
		{
			name:        "Missing password",
			requestBody: []byte(`{"username": "user", "password": ""}`),
			setupMock:   func() {},
			expected: expectedData{
				expectedContentType: "application/json",
				expectedStatusCode:  http.StatusBadRequest,
				expectedBody:        "{\"errors\":\"missing username or password\"}\n",
			},
		},
		{
			name:        "Incorrect password",
			requestBody: []byte(`{"username": "existing_user", "password": "wrongpass"}`),
			setupMock: func() {
				mockDB.EXPECT().CheckAccount(gomock.Any(), gomock.AssignableToTypeOf(&models.Account{})).
					Return(&models.Account{Identity: existing, Username: "existing_user"}, bcrypt.ErrMismatchedHashAndPassword)
			},
			expected: expectedData{
				expectedContentType: "application/json",
				expectedStatusCode:  http.StatusUnauthorized,
				expectedBody:        "{\"errors\":\"incorrect password\"}\n",
			},
		},
		{
			name:        "Duplicate registration race",
			requestBody: []byte(`{"username": "existing_user", "password": "pass"}`),
			setupMock: func() {
				mockDB.EXPECT().CheckAccount(gomock.Any(), gomock.AssignableToTypeOf(&models.Account{})).
					Return(&models.Account{Username: "existing_user"}, nil)
				mockDB.EXPECT().CreateAccount(gomock.Any(), gomock.AssignableToTypeOf(&models.Account{})).
					Return(nil, &pgx_pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			expected: expectedData{
				expectedContentType: "application/json",
				expectedStatusCode:  http.StatusUnauthorized,
				expectedBody:        "{\"errors\":\"account with provided name already exists\"}\n",
			},
		},
		{
			name:        "Existing account",
			requestBody: []byte(`{"username": "existing_user", "password": "pass"}`),
			setupMock: func() {
				mockDB.EXPECT().CheckAccount(gomock.Any(), gomock.AssignableToTypeOf(&models.Account{})).
					Return(&models.Account{Identity: existing, Username: "existing_user", Balance: 700}, nil)
			},
			expected: expectedData{
				expectedContentType: "application/json",
				expectedStatusCode:  http.StatusOK,
			},
		},
		{
			name:        "New account",
			requestBody: []byte(`{"username": "new_user", "password": "pass"}`),
			setupMock: func() {
				mockDB.EXPECT().CheckAccount(gomock.Any(), gomock.AssignableToTypeOf(&models.Account{})).
					Return(&models.Account{Username: "new_user"}, nil)
				mockDB.EXPECT().CreateAccount(gomock.Any(), gomock.AssignableToTypeOf(&models.Account{})).
					Return(&models.Account{Identity: record.DeriveIdentity("new_user"), Username: "new_user", Balance: 1000}, nil)
			},
			expected: expectedData{
				expectedContentType: "application/json",
				expectedStatusCode:  http.StatusOK,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequest(t, testServer, http.MethodPost, "/api/auth", tc.requestBody)
			assert.Equal(t, tc.expected.expectedStatusCode, resp.StatusCode)
			assert.Equal(t, tc.expected.expectedContentType, resp.Header.Get("Content-Type"))

			if tc.expected.expectedStatusCode == http.StatusOK {
				assert.Contains(t, body, "token", "response must carry a token")
			} else {
				assert.Equal(t, tc.expected.expectedBody, body)
			}
		})
	}
}

func TestInitializeShopHandler_Gomock(t *testing.T) {
	mockDB, testServer := newTestServer(t)

	admin := record.DeriveIdentity("admin")
	token, err := auth.GenerateToken(admin)
	require.NoError(t, err)

	type expectedData struct {
		expectedStatusCode int
		expectedBody       string
	}

	testCases := []struct {
		name      string
		token     string
		setupMock func()
		expected  expectedData
	}{
		{
			name:      "Unauthorized - no token",
			token:     "",
			setupMock: func() {},
			expected: expectedData{
				expectedStatusCode: http.StatusUnauthorized,
				expectedBody:       "{\"errors\":\"missing auth header\"}\n",
			},
		},
		{
			name:  "Shop already initialized",
			token: token,
			setupMock: func() {
				mockDB.EXPECT().InitializeShop(gomock.Any(), admin).
					Return(nil, &pgx_pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			expected: expectedData{
				expectedStatusCode: http.StatusConflict,
				expectedBody:       "{\"errors\":\"shop is already initialized\"}\n",
			},
		},
		{
			name:  "Successful initialization",
			token: token,
			setupMock: func() {
				mockDB.EXPECT().InitializeShop(gomock.Any(), admin).
					Return(&record.Shop{Admin: admin}, nil)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusOK,
				expectedBody:       fmt.Sprintf("{\"admin\":\"%s\",\"itemCount\":0}", admin.String()),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequestWithAuth(t, testServer, http.MethodPost, "/api/shop", nil, tc.token)
			assert.Equal(t, tc.expected.expectedStatusCode, resp.StatusCode)
			assert.Equal(t, tc.expected.expectedBody, body)
		})
	}
}

func TestAddItemHandler_Gomock(t *testing.T) {
	mockDB, testServer := newTestServer(t)

	admin := record.DeriveIdentity("admin")
	intruder := record.DeriveIdentity("intruder")

	adminToken, err := auth.GenerateToken(admin)
	require.NoError(t, err)
	intruderToken, err := auth.GenerateToken(intruder)
	require.NoError(t, err)

	type expectedData struct {
		expectedStatusCode int
		expectedBody       string
	}

	testCases := []struct {
		name        string
		token       string
		requestBody []byte
		setupMock   func()
		expected    expectedData
	}{
		{
			name:        "Missing metadata uri",
			token:       adminToken,
			requestBody: []byte(`{"id": 1, "price": 100, "metadataUri": ""}`),
			setupMock:   func() {},
			expected: expectedData{
				expectedStatusCode: http.StatusBadRequest,
				expectedBody:       "{\"errors\":\"missing item metadata uri\"}\n",
			},
		},
		{
			name:        "Price past int64 range",
			token:       adminToken,
			requestBody: []byte(`{"id": 1, "price": 9223372036854775808, "metadataUri": "ipfs://x"}`),
			setupMock:   func() {},
			expected: expectedData{
				expectedStatusCode: http.StatusBadRequest,
				expectedBody:       "{\"errors\":\"item price is too large\"}\n",
			},
		},
		{
			name:        "Zero price is a valid free item",
			token:       adminToken,
			requestBody: []byte(`{"id": 3, "price": 0, "metadataUri": "ipfs://free"}`),
			setupMock: func() {
				mockDB.EXPECT().AddItem(gomock.Any(), admin, gomock.AssignableToTypeOf(&record.Item{})).
					Return(&record.Item{ID: 3, Price: 0, MetadataURI: "ipfs://free"}, nil)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusOK,
				expectedBody:       "{\"id\":3,\"price\":0,\"metadataUri\":\"ipfs://free\"}",
			},
		},
		{
			name:        "Non-admin caller",
			token:       intruderToken,
			requestBody: []byte(`{"id": 1, "price": 100, "metadataUri": "ipfs://x"}`),
			setupMock: func() {
				mockDB.EXPECT().AddItem(gomock.Any(), intruder, gomock.AssignableToTypeOf(&record.Item{})).
					Return(nil, record.ErrUnauthorized)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusForbidden,
				expectedBody:       "{\"errors\":\"only the shop admin can add items\"}\n",
			},
		},
		{
			name:        "Shop not initialized",
			token:       adminToken,
			requestBody: []byte(`{"id": 1, "price": 100, "metadataUri": "ipfs://x"}`),
			setupMock: func() {
				mockDB.EXPECT().AddItem(gomock.Any(), admin, gomock.AssignableToTypeOf(&record.Item{})).
					Return(nil, sql.ErrNoRows)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusNotFound,
				expectedBody:       "{\"errors\":\"shop is not initialized\"}\n",
			},
		},
		{
			name:        "Duplicate item id",
			token:       adminToken,
			requestBody: []byte(`{"id": 1, "price": 100, "metadataUri": "ipfs://x"}`),
			setupMock: func() {
				mockDB.EXPECT().AddItem(gomock.Any(), admin, gomock.AssignableToTypeOf(&record.Item{})).
					Return(nil, &pgx_pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			expected: expectedData{
				expectedStatusCode: http.StatusConflict,
				expectedBody:       "{\"errors\":\"item id is already in use\"}\n",
			},
		},
		{
			name:        "Generic error",
			token:       adminToken,
			requestBody: []byte(`{"id": 1, "price": 100, "metadataUri": "ipfs://x"}`),
			setupMock: func() {
				mockDB.EXPECT().AddItem(gomock.Any(), admin, gomock.AssignableToTypeOf(&record.Item{})).
					Return(nil, errors.New("add item error"))
			},
			expected: expectedData{
				expectedStatusCode: http.StatusInternalServerError,
				expectedBody:       "{\"errors\":\"add item error\"}\n",
			},
		},
		{
			name:        "Successful publication",
			token:       adminToken,
			requestBody: []byte(`{"id": 1, "price": 100, "metadataUri": "ipfs://x"}`),
			setupMock: func() {
				mockDB.EXPECT().AddItem(gomock.Any(), admin, gomock.AssignableToTypeOf(&record.Item{})).
					Return(&record.Item{ID: 1, Price: 100, MetadataURI: "ipfs://x"}, nil)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusOK,
				expectedBody:       "{\"id\":1,\"price\":100,\"metadataUri\":\"ipfs://x\"}",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequestWithAuth(t, testServer, http.MethodPost, "/api/shop/items", tc.requestBody, tc.token)
			assert.Equal(t, tc.expected.expectedStatusCode, resp.StatusCode)
			assert.Equal(t, tc.expected.expectedBody, body)
		})
	}
}

func TestFirstPurchaseHandler_Gomock(t *testing.T) {
	mockDB, testServer := newTestServer(t)

	buyer := record.DeriveIdentity("buyer")
	token, err := auth.GenerateToken(buyer)
	require.NoError(t, err)

	type expectedData struct {
		expectedStatusCode int
		expectedBody       string
	}

	testCases := []struct {
		name      string
		path      string
		setupMock func()
		expected  expectedData
	}{
		{
			name:      "Invalid item id",
			path:      "/api/purchase/first/abc",
			setupMock: func() {},
			expected: expectedData{
				expectedStatusCode: http.StatusBadRequest,
				expectedBody:       "{\"errors\":\"invalid item id provided\"}\n",
			},
		},
		{
			name: "Unknown item",
			path: "/api/purchase/first/9",
			setupMock: func() {
				mockDB.EXPECT().FirstPurchase(gomock.Any(), buyer, uint64(9)).
					Return(nil, sql.ErrNoRows)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusNotFound,
				expectedBody:       "{\"errors\":\"unknown item id provided\"}\n",
			},
		},
		{
			name: "Insufficient funds",
			path: "/api/purchase/first/1",
			setupMock: func() {
				mockDB.EXPECT().FirstPurchase(gomock.Any(), buyer, uint64(1)).
					Return(nil, &pgx_pgconn.PgError{Code: pgerrcode.CheckViolation})
			},
			expected: expectedData{
				expectedStatusCode: http.StatusBadRequest,
				expectedBody:       "{\"errors\":\"insufficient funds to purchase the item\"}\n",
			},
		},
		{
			name: "History already exists",
			path: "/api/purchase/first/1",
			setupMock: func() {
				mockDB.EXPECT().FirstPurchase(gomock.Any(), buyer, uint64(1)).
					Return(nil, &pgx_pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			expected: expectedData{
				expectedStatusCode: http.StatusConflict,
				expectedBody:       "{\"errors\":\"purchase history already exists, use the subsequent purchase endpoint\"}\n",
			},
		},
		{
			name: "Successful first purchase",
			path: "/api/purchase/first/1",
			setupMock: func() {
				mockDB.EXPECT().FirstPurchase(gomock.Any(), buyer, uint64(1)).
					Return(&record.PurchaseRecord{ItemID: 1, Timestamp: 1700000000}, nil)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusOK,
				expectedBody:       "{\"itemId\":1,\"timestamp\":1700000000}",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequestWithAuth(t, testServer, http.MethodPost, tc.path, nil, token)
			assert.Equal(t, tc.expected.expectedStatusCode, resp.StatusCode)
			assert.Equal(t, tc.expected.expectedBody, body)
		})
	}
}

func TestSubsequentPurchaseHandler_Gomock(t *testing.T) {
	mockDB, testServer := newTestServer(t)

	buyer := record.DeriveIdentity("buyer")
	token, err := auth.GenerateToken(buyer)
	require.NoError(t, err)

	type expectedData struct {
		expectedStatusCode int
		expectedBody       string
	}

	testCases := []struct {
		name      string
		path      string
		setupMock func()
		expected  expectedData
	}{
		{
			name: "No history",
			path: "/api/purchase/next/1",
			setupMock: func() {
				mockDB.EXPECT().SubsequentPurchase(gomock.Any(), buyer, uint64(1)).
					Return(nil, sql.ErrNoRows)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusNotFound,
				expectedBody:       "{\"errors\":\"unknown item id or no purchase history\"}\n",
			},
		},
		{
			name: "History owned by someone else",
			path: "/api/purchase/next/1",
			setupMock: func() {
				mockDB.EXPECT().SubsequentPurchase(gomock.Any(), buyer, uint64(1)).
					Return(nil, record.ErrInvalidHistoryOwner)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusForbidden,
				expectedBody:       "{\"errors\":\"purchase history does not belong to the buyer\"}\n",
			},
		},
		{
			name: "History full",
			path: "/api/purchase/next/1",
			setupMock: func() {
				mockDB.EXPECT().SubsequentPurchase(gomock.Any(), buyer, uint64(1)).
					Return(nil, record.ErrCapacityExceeded)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusConflict,
				expectedBody:       "{\"errors\":\"purchase history is full\"}\n",
			},
		},
		{
			name: "Insufficient funds",
			path: "/api/purchase/next/1",
			setupMock: func() {
				mockDB.EXPECT().SubsequentPurchase(gomock.Any(), buyer, uint64(1)).
					Return(nil, &pgx_pgconn.PgError{Code: pgerrcode.CheckViolation})
			},
			expected: expectedData{
				expectedStatusCode: http.StatusBadRequest,
				expectedBody:       "{\"errors\":\"insufficient funds to purchase the item\"}\n",
			},
		},
		{
			name: "Successful subsequent purchase",
			path: "/api/purchase/next/1",
			setupMock: func() {
				mockDB.EXPECT().SubsequentPurchase(gomock.Any(), buyer, uint64(1)).
					Return(&record.PurchaseRecord{ItemID: 1, Timestamp: 1700000001}, nil)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusOK,
				expectedBody:       "{\"itemId\":1,\"timestamp\":1700000001}",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequestWithAuth(t, testServer, http.MethodPost, tc.path, nil, token)
			assert.Equal(t, tc.expected.expectedStatusCode, resp.StatusCode)
			assert.Equal(t, tc.expected.expectedBody, body)
		})
	}
}

func TestInfoHandler_Gomock(t *testing.T) {
	mockDB, testServer := newTestServer(t)

	buyer := record.DeriveIdentity("buyer")
	token, err := auth.GenerateToken(buyer)
	require.NoError(t, err)

	type expectedData struct {
		expectedStatusCode int
		expectedBody       string
	}

	testCases := []struct {
		name      string
		setupMock func()
		expected  expectedData
	}{
		{
			name: "No purchases yet",
			setupMock: func() {
				mockDB.EXPECT().GetAccountInfo(gomock.Any(), buyer).
					Return(&models.Account{Identity: buyer, Balance: 1000}, nil)
				mockDB.EXPECT().GetHistory(gomock.Any(), buyer).
					Return(nil, sql.ErrNoRows)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusOK,
				expectedBody:       "{\"balance\":1000,\"purchases\":[]}",
			},
		},
		{
			name: "With purchase history",
			setupMock: func() {
				mockDB.EXPECT().GetAccountInfo(gomock.Any(), buyer).
					Return(&models.Account{Identity: buyer, Balance: 800}, nil)
				mockDB.EXPECT().GetHistory(gomock.Any(), buyer).
					Return(&record.PurchaseHistory{
						Owner: buyer,
						Purchases: []record.PurchaseRecord{
							{ItemID: 1, Timestamp: 1700000000},
							{ItemID: 1, Timestamp: 1700000001},
						},
					}, nil)
			},
			expected: expectedData{
				expectedStatusCode: http.StatusOK,
				expectedBody:       "{\"balance\":800,\"purchases\":[{\"itemId\":1,\"timestamp\":1700000000},{\"itemId\":1,\"timestamp\":1700000001}]}",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequestWithAuth(t, testServer, http.MethodGet, "/api/info", nil, token)
			assert.Equal(t, tc.expected.expectedStatusCode, resp.StatusCode)
			assert.Equal(t, tc.expected.expectedBody, body)
		})
	}
}
