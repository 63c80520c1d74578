package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authscript/internal/analysis"
	analysishandler "authscript/internal/analysis/handler"
	"authscript/internal/token"
	"authscript/pkg/platform/middleware/auth"
	"authscript/pkg/testutil"
)

type stubService struct{}

func (stubService) Analyze(context.Context, analysis.Request) (*analysis.PAForm, error) {
	return &analysis.PAForm{AnalysisID: "a1", Recommendation: "APPROVE"}, nil
}

func newTestRouter(t *testing.T, withAuth bool) (http.Handler, *token.Service) {
	t.Helper()
	handler := analysishandler.New(stubService{}, slog.Default())
	tokens := token.NewService("test-secret", "authscript", "authscript-api")
	var mw func(http.Handler) http.Handler
	if withAuth {
		mw = auth.RequireAuth(tokens, slog.Default())
	}
	return NewRouter(handler, mw), tokens
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t, true)

	t.Run("health is public", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/health", ""))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("metrics is public", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodGet, "/metrics", ""))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestRouterAuth(t *testing.T) {
	router, tokens := newTestRouter(t, true)
	body := `{"patient_id":"p1","procedure_code":"72148","clinical_data":{}}`

	t.Run("analyze without token rejected", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/analyze", body))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("analyze with valid bearer token accepted", func(t *testing.T) {
		tokenString, err := tokens.Generate("payer-portal", time.Minute)
		require.NoError(t, err)

		req := testutil.NewRequestWithBody(t, http.MethodPost, "/analyze", body)
		req.Header.Set("Authorization", "Bearer "+tokenString)

		rr := testutil.DoRequest(router, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("auth disabled serves without token", func(t *testing.T) {
		open, _ := newTestRouter(t, false)
		rr := testutil.DoRequest(open, testutil.NewRequestWithBody(t, http.MethodPost, "/analyze", body))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
