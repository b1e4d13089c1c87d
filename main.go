package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/pvsarolkar/partner-survey/app"
	"github.com/pvsarolkar/partner-survey/config"
	"github.com/pvsarolkar/partner-survey/database"
	"github.com/pvsarolkar/partner-survey/httpx"
	"github.com/pvsarolkar/partner-survey/log"
	"github.com/pvsarolkar/partner-survey/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	bearerServer := httpx.NewBearerServer(db, cfg)

	handler := routes.Wire(app.New(db, bearerServer, cfg))

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
