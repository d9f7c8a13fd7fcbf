package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/service/userservice"
	"github.com/GlebRadaev/ledger/pkg/auth"
	"github.com/GlebRadaev/ledger/pkg/utils"
)

func NewMock(t *testing.T) (*UserHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	return New(service), service
}

func authedRequest(target string, userID int) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, userID))
}

var createdAt = time.Date(2024, 12, 9, 16, 9, 57, 0, time.UTC)

func TestMeHandler(t *testing.T) {
	tests := []struct {
		name          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedBody  string
		expectedError string
	}{
		{
			name: "Current user",
			prepareMock: func(service *MockService) {
				service.EXPECT().GetUser(gomock.Any(), 1).Return(&domain.User{
					ID: 1, Email: "testuser@example.com", PasswordHash: "hash", CreatedAt: createdAt,
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"email":"testuser@example.com","full_name":null,"is_admin":false,"created_at":"2024-12-09T16:09:57Z","updated_at":null}`,
		},
		{
			name: "User deleted after login",
			prepareMock: func(service *MockService) {
				service.EXPECT().GetUser(gomock.Any(), 1).Return(nil, userservice.ErrUserNotFound)
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Could not validate credentials",
		},
		{
			name: "Service failure",
			prepareMock: func(service *MockService) {
				service.EXPECT().GetUser(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			rr := httptest.NewRecorder()
			handler.Me(rr, authedRequest("/users/me", 1))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Detail)
				return
			}
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestAccountsHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Accounts listed",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListAccounts(gomock.Any(), 1).Return([]domain.Account{
					{ID: 1, UserID: 1, Balance: decimal.RequireFromString("200.5")},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"balance":200.50}]`,
		},
		{
			name: "No accounts",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListAccounts(gomock.Any(), 1).Return(nil, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name: "Service failure",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListAccounts(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			rr := httptest.NewRecorder()
			handler.Accounts(rr, authedRequest("/users/accounts", 1))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestPaymentsHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "Payments listed",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListPayments(gomock.Any(), 1).Return([]domain.Payment{{
					ID: 3, TransactionID: "tx1", AccountID: 1, UserID: 1, Amount: decimal.NewFromInt(100), CreatedAt: createdAt,
				}}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":3,"transaction_id":"tx1","amount":100.00,"account_id":1,"user_id":1,"created_at":"2024-12-09T16:09:57Z"}]`,
		},
		{
			name: "Service failure",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListPayments(gomock.Any(), 1).Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			rr := httptest.NewRecorder()
			handler.Payments(rr, authedRequest("/users/payments", 1))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}
