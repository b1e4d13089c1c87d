package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/samber/lo"

	"github.com/pvsarolkar/partner-survey/app"
	"github.com/pvsarolkar/partner-survey/httpx"
	"github.com/pvsarolkar/partner-survey/log"
	"github.com/pvsarolkar/partner-survey/model"
	"github.com/pvsarolkar/partner-survey/survey"
)

func SearchCustomers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := app.Customers.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			httpx.LogInternalError(w, "db.search_customers", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"customers": customers,
		})
	}
}

func ListTemplates(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates, err := app.Templates.List(r.Context())
		if err != nil {
			httpx.RenderDomainError(w, r, "db.get_templates", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"templates": templates,
		})
	}
}

func GetTemplateById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl, ok := loadTemplate(app, w, r)
		if !ok {
			return
		}

		render.JSON(w, r, tpl)
	}
}

// SurveyState runs the visibility engine over the answers the SPA holds and
// reports what to show next: visible question ids, the required ones still
// unanswered, and the completion ratio. The SPA calls this after every
// answer mutation, since changing a controlling answer can hide or reveal
// whole branches.
func SurveyState(app app.App) http.HandlerFunc {
	type stateRequest struct {
		Answers map[string]any `json:"answers"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tpl, ok := loadTemplate(app, w, r)
		if !ok {
			return
		}

		var req stateRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		sess := survey.NewSession(tpl)
		if !applyAnswers(sess, req.Answers, w, r) {
			return
		}

		visible := lo.Map(sess.Visible(), func(q model.Question, _ int) string { return q.ID })
		render.JSON(w, r, map[string]any{
			"visible":          visible,
			"missing_required": sess.Missing(),
			"progress":         sess.Progress(),
		})
	}
}

// LatestSubmission returns the stored answers of a previous submission for
// this (customer, template) pair so the SPA can prefill the form, plus who
// submitted them and when.
func LatestSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl, ok := loadTemplate(app, w, r)
		if !ok {
			return
		}

		customerID := r.URL.Query().Get("customer_id")
		if customerID == "" {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_query_param.customer_id")
			return
		}

		prior, err := app.Submissions.Latest(r.Context(), customerID, tpl)
		if err != nil {
			httpx.RenderDomainError(w, r, "db.get_latest_submission", err)
			return
		}

		answers := make(map[string]any, len(prior.Answers))
		for id, a := range prior.Answers {
			answers[id] = survey.Raw(a)
		}
		render.JSON(w, r, map[string]any{
			"submitted_at":    prior.Submission.SubmittedAt,
			"partner_name":    prior.PartnerName,
			"partner_company": prior.PartnerCompany,
			"answers":         answers,
		})
	}
}

func SubmitSurvey(app app.App) http.HandlerFunc {
	type submitRequest struct {
		Customer model.Customer `json:"customer"`
		Partner  model.Partner  `json:"partner"`
		Answers  map[string]any `json:"answers"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tpl, ok := loadTemplate(app, w, r)
		if !ok {
			return
		}

		var req submitRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Customer.ID == "" || req.Partner.Name == "" || req.Partner.Company == "" {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "request.submit",
				"customer_id, partner_name and partner_company are required")
			return
		}

		sess := survey.NewSession(tpl)
		sess.Customer = req.Customer
		sess.Partner = req.Partner
		if !applyAnswers(sess, req.Answers, w, r) {
			return
		}

		responses, err := sess.Assemble(0)
		if err != nil {
			httpx.RenderDomainError(w, r, "submit.assemble", err)
			return
		}

		sub, err := app.Submissions.Submit(r.Context(), req.Customer, req.Partner, tpl.ID, responses)
		if err != nil {
			httpx.RenderDomainError(w, r, "db.insert_submission", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":        sub.ID,
			"uuid":      sub.UUID,
			"is_update": sub.IsUpdate,
		})
	}
}

// loadTemplate resolves the {id} URL parameter to a validated template,
// rendering the error response itself when it cannot.
func loadTemplate(app app.App, w http.ResponseWriter, r *http.Request) (model.Template, bool) {
	templateId, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
		return model.Template{}, false
	}

	tpl, err := app.Templates.Load(r.Context(), templateId)
	if err != nil {
		httpx.RenderDomainError(w, r, "db.get_template", err)
		return model.Template{}, false
	}
	return tpl, true
}

// applyAnswers feeds raw client answers through the acceptance checks,
// rendering the rejection itself when a value is out of range.
func applyAnswers(sess *survey.Session, answers map[string]any, w http.ResponseWriter, r *http.Request) bool {
	for id, raw := range answers {
		if err := sess.SetAnswer(id, raw); err != nil {
			httpx.RenderDomainError(w, r, "request.accept_answer", err)
			return false
		}
	}
	return true
}
