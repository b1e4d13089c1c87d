package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvsarolkar/partner-survey/app"
	"github.com/pvsarolkar/partner-survey/config"
	"github.com/pvsarolkar/partner-survey/database"
	"github.com/pvsarolkar/partner-survey/httpx"
	"github.com/pvsarolkar/partner-survey/model"
)

func testApp(t *testing.T) app.App {
	t.Helper()
	cfg := config.Config{
		DBUrl:       filepath.Join(t.TempDir(), "test.sqlite"),
		TokenSecret: "test-secret",
		TokenTTL:    time.Minute,
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return app.New(db, httpx.NewBearerServer(db, cfg), cfg)
}

func seedTemplate(t *testing.T, a app.App) model.Template {
	t.Helper()
	id, err := a.Templates.Save(context.Background(), model.Template{
		Name: "Partner Satisfaction",
		Questions: []model.Question{
			{ID: "Q1", Type: model.TypeSingleSelect, Label: "Do you resell?", Required: true,
				Select: &model.SelectSettings{Options: []string{"Yes", "No"}}},
			{ID: "Q2", Type: model.TypeMultiSelect, Label: "Which lines?", Required: true,
				Select:    &model.SelectSettings{Options: []string{"A", "B", "C"}},
				DependsOn: &model.Dependency{QuestionID: "Q1", AnyOf: []string{"Yes"}}},
			{ID: "Q3", Type: model.TypeRating, Label: "Overall?", Required: true,
				Rating: &model.RatingSettings{Min: 1, Max: 5}},
		},
	})
	require.NoError(t, err)

	tpl, err := a.Templates.Load(context.Background(), id)
	require.NoError(t, err)
	return tpl
}

func jsonRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewReader(raw))
	req.Header.Set("content-type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestSurveyStateReflectsAnswers(t *testing.T) {
	a := testApp(t)
	tpl := seedTemplate(t, a)
	api := apiRouter(a)

	req := jsonRequest(t, "POST", fmt.Sprintf("/templates/%d/state", tpl.ID), map[string]any{
		"answers": map[string]any{"Q1": "Yes"},
	})
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, []any{"Q1", "Q2", "Q3"}, body["visible"])
	assert.Equal(t, []any{"Q2", "Q3"}, body["missing_required"])
	assert.InDelta(t, 1.0/3.0, body["progress"], 1e-9)
}

func TestSurveyStateRejectsOutOfRange(t *testing.T) {
	a := testApp(t)
	tpl := seedTemplate(t, a)
	api := apiRouter(a)

	req := jsonRequest(t, "POST", fmt.Sprintf("/templates/%d/state", tpl.ID), map[string]any{
		"answers": map[string]any{"Q3": 6},
	})
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSubmitBlocksOnMissingRequired(t *testing.T) {
	a := testApp(t)
	tpl := seedTemplate(t, a)
	api := apiRouter(a)

	req := jsonRequest(t, "POST", fmt.Sprintf("/templates/%d/submissions", tpl.ID), map[string]any{
		"customer": map[string]any{"customer_id": "42", "customer_company": "Acme"},
		"partner":  map[string]any{"partner_name": "Pat", "partner_company": "Partner Inc"},
		"answers":  map[string]any{"Q1": "Yes", "Q2": []string{"A"}},
	})
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, []any{"Q3"}, body["missing_required"])
}

func TestSubmitAndResubmitFlow(t *testing.T) {
	a := testApp(t)
	tpl := seedTemplate(t, a)
	api := apiRouter(a)

	submit := func(answers map[string]any) map[string]any {
		req := jsonRequest(t, "POST", fmt.Sprintf("/templates/%d/submissions", tpl.ID), map[string]any{
			"customer": map[string]any{"customer_id": "42", "customer_company": "Acme"},
			"partner":  map[string]any{"partner_name": "Pat", "partner_company": "Partner Inc"},
			"answers":  answers,
		})
		resp := httptest.NewRecorder()
		api.ServeHTTP(resp, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		return decodeBody(t, resp)
	}

	first := submit(map[string]any{"Q1": "Yes", "Q2": []string{"A"}, "Q3": 4})
	assert.Equal(t, false, first["is_update"])

	second := submit(map[string]any{"Q1": "No", "Q3": 2})
	assert.Equal(t, true, second["is_update"])
	assert.Equal(t, first["uuid"], second["uuid"])

	// Prefill returns the replacement set only.
	req := httptest.NewRequest("GET",
		fmt.Sprintf("/templates/%d/submissions/latest?customer_id=42", tpl.ID), nil)
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	answers := body["answers"].(map[string]any)
	assert.Equal(t, "No", answers["Q1"])
	assert.NotContains(t, answers, "Q2")
	assert.Equal(t, "Pat", body["partner_name"])
}

func TestSubmitRequiresPartnerIdentity(t *testing.T) {
	a := testApp(t)
	tpl := seedTemplate(t, a)
	api := apiRouter(a)

	req := jsonRequest(t, "POST", fmt.Sprintf("/templates/%d/submissions", tpl.ID), map[string]any{
		"customer": map[string]any{"customer_id": "42"},
		"answers":  map[string]any{},
	})
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetTemplateNotFound(t *testing.T) {
	a := testApp(t)
	api := apiRouter(a)

	req := httptest.NewRequest("GET", "/templates/999", nil)
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestLatestSubmissionNotFound(t *testing.T) {
	a := testApp(t)
	tpl := seedTemplate(t, a)
	api := apiRouter(a)

	req := httptest.NewRequest("GET",
		fmt.Sprintf("/templates/%d/submissions/latest?customer_id=nobody", tpl.ID), nil)
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearchCustomers(t *testing.T) {
	a := testApp(t)
	require.NoError(t, a.Customers.Upsert(context.Background(),
		model.Customer{ID: "C-1", Company: "Acme Corp"}))
	api := apiRouter(a)

	req := httptest.NewRequest("GET", "/customers?q=acme", nil)
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	customers := body["customers"].([]any)
	require.Len(t, customers, 1)
}
