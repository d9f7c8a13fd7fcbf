package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/dto"
	"github.com/GlebRadaev/ledger/internal/service/authservice"
	"github.com/GlebRadaev/ledger/pkg/utils"
)

func NewMock(t *testing.T) (*AuthHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	return New(service), service
}

func TestLoginHandler(t *testing.T) {
	form := url.Values{"username": {"testuser@example.com"}, "password": {"123"}}.Encode()

	tests := []struct {
		name           string
		contentType    string
		body           string
		prepareMock    func(service *MockService)
		expectedCode   int
		expectedError  string
		expectedHeader string
	}{
		{
			name:        "Form login",
			contentType: "application/x-www-form-urlencoded",
			body:        form,
			prepareMock: func(service *MockService) {
				service.EXPECT().Authenticate(gomock.Any(), "testuser@example.com", "123").Return(&domain.User{ID: 1}, nil)
				service.EXPECT().GenerateToken(1).Return("token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:        "JSON login",
			contentType: "application/json",
			body:        `{"username":"testuser@example.com","password":"123"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Authenticate(gomock.Any(), "testuser@example.com", "123").Return(&domain.User{ID: 1}, nil)
				service.EXPECT().GenerateToken(1).Return("token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Malformed JSON",
			contentType:   "application/json",
			body:          `{"username":`,
			prepareMock:   func(*MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:          "Missing password",
			contentType:   "application/x-www-form-urlencoded",
			body:          "username=testuser%40example.com",
			prepareMock:   func(*MockService) {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "password: required",
		},
		{
			name:        "Wrong credentials",
			contentType: "application/x-www-form-urlencoded",
			body:        form,
			prepareMock: func(service *MockService) {
				service.EXPECT().Authenticate(gomock.Any(), "testuser@example.com", "123").
					Return(nil, authservice.ErrInvalidCredentials)
			},
			expectedCode:   http.StatusUnauthorized,
			expectedError:  "Incorrect email or password",
			expectedHeader: "Bearer",
		},
		{
			name:        "Repository failure",
			contentType: "application/x-www-form-urlencoded",
			body:        form,
			prepareMock: func(service *MockService) {
				service.EXPECT().Authenticate(gomock.Any(), "testuser@example.com", "123").
					Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
		{
			name:        "Token failure",
			contentType: "application/x-www-form-urlencoded",
			body:        form,
			prepareMock: func(service *MockService) {
				service.EXPECT().Authenticate(gomock.Any(), "testuser@example.com", "123").Return(&domain.User{ID: 1}, nil)
				service.EXPECT().GenerateToken(1).Return("", errors.New("signing failed"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rr := httptest.NewRecorder()

			handler.Login(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedHeader, rr.Header().Get("WWW-Authenticate"))
			if tt.expectedError != "" {
				var resp utils.Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedError, resp.Detail)
				return
			}
			var resp dto.TokenResponseDTO
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, dto.TokenResponseDTO{AccessToken: "token", TokenType: "bearer"}, resp)
		})
	}
}
