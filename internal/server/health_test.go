package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/server"
	"github.com/stretchr/testify/require"
)

type MockStorePinger struct {
	ShouldFail bool
}

func (m *MockStorePinger) Ping(_ context.Context) error {
	if m.ShouldFail {
		return errors.New("mock store error")
	}
	return nil
}

type MockMirror struct {
	IsLoading bool
}

func (m *MockMirror) Loading() bool {
	return m.IsLoading
}

func TestHealthChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		storeFails   bool
		loading      bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "all systems ok",
			expectedCode: http.StatusOK,
			expectedBody: `{"store":"ok","mirror":"ready"}`,
		},
		{
			name:         "store unavailable",
			storeFails:   true,
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"store":"unavailable","mirror":"ready"}`,
		},
		{
			name:         "mirror loading",
			loading:      true,
			expectedCode: http.StatusOK,
			expectedBody: `{"store":"ok","mirror":"loading"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			healthChecker := server.NewHealthChecker(
				&MockStorePinger{ShouldFail: tt.storeFails}, &MockMirror{IsLoading: tt.loading}, sl.Discard())

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rr := httptest.NewRecorder()

			healthChecker.ServeHTTP(rr, req)

			require.Equal(t, tt.expectedCode, rr.Code)
			require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			require.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}
