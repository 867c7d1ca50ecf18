package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/internal/api/handlers"
	"github.com/shady333/gettingHWaccess/internal/token"
)

func fixedStore(now time.Time) *token.Store {
	return token.NewStore(3*time.Minute, token.WithNowFunc(func() time.Time { return now }))
}

func TestGetToken_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := fixedStore(now)
	store.Put("eyJhbGciOi")

	_, api := humatest.New(t)
	handlers.RegisterTokenRoutes(api, handlers.NewTokenHandler(store))

	resp := api.Get("/api/v1/token")
	require.Equal(t, http.StatusOK, resp.Code)

	var body handlers.TokenBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "eyJhbGciOi", body.Token)
	assert.True(t, now.Equal(body.AcquiredAt))
	assert.True(t, now.Add(3*time.Minute).Equal(body.ExpiresAt))
}

func TestGetToken_NotReady(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterTokenRoutes(api, handlers.NewTokenHandler(token.NewStore(time.Minute)))

	resp := api.Get("/api/v1/token")
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), "token not ready")
}

func TestLegacyGetToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "cached token",
			token:      "abc",
			wantStatus: http.StatusOK,
			wantBody:   `{"token":"abc"}`,
		},
		{
			name:       "no token",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"Token not ready"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := token.NewStore(time.Minute)
			if tt.token != "" {
				store.Put(tt.token)
			}
			h := handlers.NewTokenHandler(store)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/get_token", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.LegacyGetToken(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
