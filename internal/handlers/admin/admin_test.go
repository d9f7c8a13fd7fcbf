package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/service/userservice"
)

func NewMock(t *testing.T) (*AdminHandler, *MockUserService, *MockLedgerService) {
	ctrl := gomock.NewController(t)
	users := NewMockUserService(ctrl)
	ledger := NewMockLedgerService(ctrl)
	return New(users, ledger), users, ledger
}

func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func ptr[T any](v T) *T {
	return &v
}

var createdAt = time.Date(2024, 12, 9, 16, 9, 57, 0, time.UTC)

func TestListUsersHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(users *MockUserService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Users listed",
			prepareMock: func(users *MockUserService) {
				users.EXPECT().ListUsers(gomock.Any()).Return([]domain.User{
					{ID: 1, Email: "testuser@example.com", CreatedAt: createdAt},
					{ID: 2, Email: "testadmin@example.com", IsAdmin: true, CreatedAt: createdAt},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[
				{"id":1,"email":"testuser@example.com","full_name":null,"is_admin":false,"created_at":"2024-12-09T16:09:57Z","updated_at":null},
				{"id":2,"email":"testadmin@example.com","full_name":null,"is_admin":true,"created_at":"2024-12-09T16:09:57Z","updated_at":null}
			]`,
		},
		{
			name: "Service failure",
			prepareMock: func(users *MockUserService) {
				users.EXPECT().ListUsers(gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, users, _ := NewMock(t)
			tt.prepareMock(users)

			rr := httptest.NewRecorder()
			handler.ListUsers(rr, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestCreateUserHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		prepareMock  func(users *MockUserService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Created",
			body: `{"email":"new@example.com","password":"secret","full_name":"New","is_admin":true}`,
			prepareMock: func(users *MockUserService) {
				users.EXPECT().CreateUser(gomock.Any(), userservice.CreateUserInput{
					Email: "new@example.com", Password: "secret", FullName: ptr("New"), IsAdmin: true,
				}).Return(&domain.User{ID: 3, Email: "new@example.com", FullName: ptr("New"), IsAdmin: true, CreatedAt: createdAt}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":3,"email":"new@example.com","full_name":"New","is_admin":true,"created_at":"2024-12-09T16:09:57Z","updated_at":null}`,
		},
		{
			name: "Duplicate email",
			body: `{"email":"testuser@example.com","password":"secret"}`,
			prepareMock: func(users *MockUserService) {
				users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, userservice.ErrEmailExists)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Email already exists"}`,
		},
		{
			name:         "Invalid email",
			body:         `{"email":"nope","password":"secret"}`,
			prepareMock:  func(*MockUserService) {},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"detail":"email: email"}`,
		},
		{
			name:         "Missing password",
			body:         `{"email":"new@example.com"}`,
			prepareMock:  func(*MockUserService) {},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"detail":"password: required"}`,
		},
		{
			name:         "Malformed body",
			body:         `{"email":`,
			prepareMock:  func(*MockUserService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, users, _ := NewMock(t)
			tt.prepareMock(users)

			rr := httptest.NewRecorder()
			handler.CreateUser(rr, httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestGetUserHandler(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		prepareMock  func(users *MockUserService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "User with accounts",
			id:   "1",
			prepareMock: func(users *MockUserService) {
				users.EXPECT().GetUserWithAccounts(gomock.Any(), 1).Return(&domain.UserWithAccounts{
					User:     domain.User{ID: 1, Email: "testuser@example.com", CreatedAt: createdAt},
					Accounts: []domain.Account{{ID: 1, UserID: 1, Balance: decimal.NewFromInt(100)}},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"email":"testuser@example.com","full_name":null,"is_admin":false,"created_at":"2024-12-09T16:09:57Z","updated_at":null,"accounts":[{"id":1,"balance":100.00}]}`,
		},
		{
			name: "Unknown user",
			id:   "9",
			prepareMock: func(users *MockUserService) {
				users.EXPECT().GetUserWithAccounts(gomock.Any(), 9).Return(nil, userservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"User not found"}`,
		},
		{
			name:         "Non numeric id",
			id:           "abc",
			prepareMock:  func(*MockUserService) {},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"User not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, users, _ := NewMock(t)
			tt.prepareMock(users)

			req := withParam(httptest.NewRequest(http.MethodGet, "/admin/users/"+tt.id, nil), "id", tt.id)
			rr := httptest.NewRecorder()
			handler.GetUser(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestUpdateUserHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		prepareMock  func(users *MockUserService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Partial update",
			body: `{"full_name":"Renamed"}`,
			prepareMock: func(users *MockUserService) {
				users.EXPECT().UpdateUser(gomock.Any(), 1, userservice.UpdateUserInput{FullName: ptr("Renamed")}).
					Return(&domain.User{ID: 1, Email: "testuser@example.com", FullName: ptr("Renamed"), CreatedAt: createdAt, UpdatedAt: &createdAt}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"email":"testuser@example.com","full_name":"Renamed","is_admin":false,"created_at":"2024-12-09T16:09:57Z","updated_at":"2024-12-09T16:09:57Z"}`,
		},
		{
			name: "Unknown user",
			body: `{"is_admin":true}`,
			prepareMock: func(users *MockUserService) {
				users.EXPECT().UpdateUser(gomock.Any(), 1, userservice.UpdateUserInput{IsAdmin: ptr(true)}).
					Return(nil, userservice.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"User not found"}`,
		},
		{
			name: "Service failure",
			body: `{"password":"new"}`,
			prepareMock: func(users *MockUserService) {
				users.EXPECT().UpdateUser(gomock.Any(), 1, gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, users, _ := NewMock(t)
			tt.prepareMock(users)

			req := withParam(httptest.NewRequest(http.MethodPut, "/admin/users/1", strings.NewReader(tt.body)), "id", "1")
			rr := httptest.NewRecorder()
			handler.UpdateUser(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	tests := []struct {
		name         string
		serviceErr   error
		expectedCode int
	}{
		{name: "Deleted", expectedCode: http.StatusNoContent},
		{name: "Unknown user", serviceErr: userservice.ErrUserNotFound, expectedCode: http.StatusNotFound},
		{name: "Service failure", serviceErr: errors.New("db error"), expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, users, _ := NewMock(t)
			users.EXPECT().DeleteUser(gomock.Any(), 1).Return(tt.serviceErr)

			req := withParam(httptest.NewRequest(http.MethodDelete, "/admin/users/1", nil), "id", "1")
			rr := httptest.NewRecorder()
			handler.DeleteUser(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusNoContent {
				assert.Empty(t, rr.Body.String())
			}
		})
	}
}

func TestGetPaymentHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(ledger *MockLedgerService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Payment found",
			prepareMock: func(ledger *MockLedgerService) {
				ledger.EXPECT().GetPayment(gomock.Any(), "tx1").Return(&domain.Payment{
					ID: 1, TransactionID: "tx1", AccountID: 1, UserID: 1, Amount: decimal.NewFromInt(100), CreatedAt: createdAt,
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"transaction_id":"tx1","amount":100.00,"account_id":1,"user_id":1,"created_at":"2024-12-09T16:09:57Z"}`,
		},
		{
			name: "Unknown transaction",
			prepareMock: func(ledger *MockLedgerService) {
				ledger.EXPECT().GetPayment(gomock.Any(), "tx1").Return(nil, fmt.Errorf("transaction tx1: %w", domain.ErrNotFound))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"Payment not found"}`,
		},
		{
			name: "Service failure",
			prepareMock: func(ledger *MockLedgerService) {
				ledger.EXPECT().GetPayment(gomock.Any(), "tx1").Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, ledger := NewMock(t)
			tt.prepareMock(ledger)

			req := withParam(httptest.NewRequest(http.MethodGet, "/admin/payments/tx1", nil), "transaction_id", "tx1")
			rr := httptest.NewRecorder()
			handler.GetPayment(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestAuditAccountHandler(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		prepareMock  func(ledger *MockLedgerService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Audit",
			id:   "1",
			prepareMock: func(ledger *MockLedgerService) {
				ledger.EXPECT().Reconcile(gomock.Any(), 1).Return(&domain.AccountAudit{
					Account:       domain.Account{ID: 1, UserID: 1, Balance: decimal.NewFromInt(200)},
					PaymentsTotal: decimal.NewFromInt(100),
					Opening:       decimal.NewFromInt(100),
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"account_id":1,"user_id":1,"balance":200.00,"payments_total":100.00,"opening_balance":100.00}`,
		},
		{
			name: "Unknown account",
			id:   "5",
			prepareMock: func(ledger *MockLedgerService) {
				ledger.EXPECT().Reconcile(gomock.Any(), 5).Return(nil, fmt.Errorf("account 5: %w", domain.ErrNotFound))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"Account not found"}`,
		},
		{
			name:         "Negative id",
			id:           "-1",
			prepareMock:  func(*MockLedgerService) {},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"Account not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, ledger := NewMock(t)
			tt.prepareMock(ledger)

			req := withParam(httptest.NewRequest(http.MethodGet, "/admin/accounts/"+tt.id+"/audit", nil), "id", tt.id)
			rr := httptest.NewRecorder()
			handler.AuditAccount(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}
