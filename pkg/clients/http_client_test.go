package clients

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestHTTPClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))

		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail":"slow down"}`))
	}))
	defer server.Close()

	headers := http.Header{"Content-Type": []string{"application/json"}}
	status, body, respHeaders, err := NewHTTPClient().Post(server.URL, headers, []byte(`{"a":1}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.JSONEq(t, `{"detail":"slow down"}`, string(body))
	assert.Equal(t, "2", respHeaders.Get("Retry-After"))
}

func TestHTTPClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	status, body, _, err := NewHTTPClient().Get(server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", string(body))
}

func TestHTTPClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, _, _, err := NewHTTPClient().Post(url, nil, nil)
	assert.Error(t, err)
}

func TestHTTPClient_SetClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockHTTPClientI(ctrl)
	mock.EXPECT().Post("http://example", nil, []byte("x")).Return(http.StatusOK, []byte("ok"), nil, nil)

	client := NewHTTPClient()
	client.SetClient(mock)

	status, body, _, err := client.Post("http://example", nil, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", string(body))
}
