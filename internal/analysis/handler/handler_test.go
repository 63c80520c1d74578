package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authscript/internal/analysis"
	"authscript/internal/oracle"
	dErrors "authscript/pkg/domain-errors"
	"authscript/pkg/testutil"
)

type stubService struct {
	form    *analysis.PAForm
	err     error
	lastReq analysis.Request
}

func (s *stubService) Analyze(_ context.Context, req analysis.Request) (*analysis.PAForm, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

func newRouter(svc *stubService) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.Default()).Register(r)
	return r
}

func validBody() map[string]any {
	return map[string]any{
		"patient_id":     "pat-1",
		"procedure_code": "72148",
		"clinical_data": map[string]any{
			"patient":    map[string]any{"name": "Jane Doe", "birth_date": "1970-04-02"},
			"conditions": []map[string]any{{"code": "M54.16"}},
		},
	}
}

func TestHandleAnalyze(t *testing.T) {
	t.Run("valid request returns form", func(t *testing.T) {
		svc := &stubService{form: &analysis.PAForm{
			AnalysisID:     "a1",
			ProcedureCode:  "72148",
			Recommendation: "APPROVE",
		}}

		rr := testutil.DoRequest(newRouter(svc), testutil.NewJSONRequest(t, http.MethodPost, "/analyze", validBody()))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[AnalyzeResponse](t, rr)
		assert.Equal(t, "a1", resp.AnalysisID)
		assert.Equal(t, "APPROVE", resp.Recommendation)
		assert.NotNil(t, resp.SupportingEvidence)

		assert.Equal(t, "pat-1", svc.lastReq.PatientID)
		assert.Equal(t, "72148", svc.lastReq.ProcedureCode)
		assert.Equal(t, "pat-1", svc.lastReq.Bundle.PatientID)
	})

	t.Run("missing procedure_code rejected", func(t *testing.T) {
		body := validBody()
		delete(body, "procedure_code")

		rr := testutil.DoRequest(newRouter(&stubService{}), testutil.NewJSONRequest(t, http.MethodPost, "/analyze", body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(&stubService{}), testutil.NewRequestWithBody(t, http.MethodPost, "/analyze", "{not json"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-object clinical_data rejected", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(&stubService{}), testutil.NewRequestWithBody(t, http.MethodPost, "/analyze",
			`{"patient_id":"pat-1","procedure_code":"72148","clinical_data":"oops"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rate limited analysis returns 429 with Retry-After", func(t *testing.T) {
		svc := &stubService{err: dErrors.Wrap(dErrors.CodeRateLimited, "reasoning backend rate limited", oracle.ErrRateLimited)}

		rr := testutil.DoRequest(newRouter(svc), testutil.NewJSONRequest(t, http.MethodPost, "/analyze", validBody()))
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	})

	t.Run("internal failure hides details", func(t *testing.T) {
		svc := &stubService{err: dErrors.Wrap(dErrors.CodeInternal, "criterion evaluation failed", assert.AnError)}

		rr := testutil.DoRequest(newRouter(svc), testutil.NewJSONRequest(t, http.MethodPost, "/analyze", validBody()))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
	})
}

func TestHandleAnalyzeDocuments(t *testing.T) {
	requestField := `{"patient_id":"pat-1","procedure_code":"72148","clinical_data":{"conditions":[{"code":"M54.16"}]}}`

	t.Run("multipart with pdf parts forwards documents", func(t *testing.T) {
		svc := &stubService{form: &analysis.PAForm{AnalysisID: "a1", Recommendation: "APPROVE"}}

		req := testutil.NewMultipartRequest(t, http.MethodPost, "/analyze/documents",
			map[string]string{"request": requestField},
			[]testutil.MultipartFile{
				{Field: "documents", Filename: "mri_report.pdf", Content: []byte("%PDF-1.4 fake")},
			},
		)

		rr := testutil.DoRequest(newRouter(svc), req)
		require.Equal(t, http.StatusOK, rr.Code)

		require.Len(t, svc.lastReq.Documents, 1)
		assert.Equal(t, "mri_report.pdf", svc.lastReq.Documents[0].Name)
		assert.Equal(t, []byte("%PDF-1.4 fake"), svc.lastReq.Documents[0].Data)
	})

	t.Run("missing request part rejected", func(t *testing.T) {
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/analyze/documents", nil, nil)

		rr := testutil.DoRequest(newRouter(&stubService{}), req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-pdf upload rejected", func(t *testing.T) {
		req := testutil.NewMultipartRequest(t, http.MethodPost, "/analyze/documents",
			map[string]string{"request": requestField},
			[]testutil.MultipartFile{
				{Field: "documents", Filename: "notes.txt", Content: []byte("plain text")},
			},
		)

		rr := testutil.DoRequest(newRouter(&stubService{}), req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
