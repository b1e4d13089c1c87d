package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/pvsarolkar/partner-survey/config"
	"github.com/pvsarolkar/partner-survey/store"
)

// App bundles everything the route handlers need.
type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config

	Templates   *store.TemplateStore
	Customers   *store.CustomerStore
	Submissions *store.SubmissionStore
}

func New(db *sql.DB, bearerServer *oauth.BearerServer, cfg config.Config) App {
	return App{
		DB:           db,
		BearerServer: bearerServer,
		Config:       cfg,
		Templates:    store.NewTemplateStore(db),
		Customers:    store.NewCustomerStore(db),
		Submissions:  store.NewSubmissionStore(db),
	}
}
