package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pvsarolkar/partner-survey/log"
	"github.com/pvsarolkar/partner-survey/model"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	w.WriteHeader(http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// RenderDomainError maps the typed domain error kinds onto HTTP statuses and
// a JSON body the SPA can show: 404 for unresolved ids, 422 for rejected
// values, missing required answers, and malformed templates, 500 for
// anything else.
func RenderDomainError(w http.ResponseWriter, r *http.Request, code string, err error) {
	var missing *model.MissingRequiredError
	switch {
	case model.IsNotFound(err):
		log.Debugf("%s: %s", code, err)
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, map[string]any{"error": err.Error()})
	case errors.As(err, &missing):
		log.Debugf("%s: %s", code, err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{
			"error":            "missing required answers",
			"missing_required": missing.QuestionIDs,
		})
	case model.IsOutOfRange(err), model.IsValidation(err):
		log.Debugf("%s: %s", code, err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{"error": err.Error()})
	default:
		LogInternalError(w, code, err)
	}
}
