package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pvsarolkar/partner-survey/app"
	"github.com/pvsarolkar/partner-survey/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.Config)).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// partner mode
	api.Get("/customers", SearchCustomers(app))
	api.Get("/templates", ListTemplates(app))
	api.Get(`/templates/{id:^\d+$}`, GetTemplateById(app))
	api.Post(`/templates/{id:^\d+$}/state`, SurveyState(app))
	api.Get(`/templates/{id:^\d+$}/submissions/latest`, LatestSubmission(app))
	api.Post(`/templates/{id:^\d+$}/submissions`, SubmitSurvey(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.Config))

		r.Post("/templates", UploadTemplate(app))
		r.Get("/templates", ListTemplates(app))
		r.Delete(`/templates/{id:^\d+$}`, DeleteTemplate(app))
		r.Get(`/templates/{id:^\d+$}/submissions`, GetTemplateSubmissions(app))
		r.Get("/export", ExportSubmissions(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
