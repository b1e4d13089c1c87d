package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pvsarolkar/partner-survey/app"
	"github.com/pvsarolkar/partner-survey/httpx"
	"github.com/pvsarolkar/partner-survey/log"
	"github.com/pvsarolkar/partner-survey/model"
	"github.com/pvsarolkar/partner-survey/xlsx"
)

const maxTemplateUpload = 10 << 20 // 10 MiB

// UploadTemplate ingests a template upload: multipart form with a name, an
// optional description, and one or more spreadsheet files whose question
// rows are concatenated in order. The whole upload is rejected when the
// resulting template is invalid; nothing partial persists.
func UploadTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxTemplateUpload); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_multipart")
			return
		}

		tpl := model.Template{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
		}
		if tpl.Name == "" {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "request.upload_template",
				"survey name is required")
			return
		}

		files := r.MultipartForm.File["file"]
		if len(files) == 0 {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "request.upload_template",
				"no template file uploaded")
			return
		}

		for _, header := range files {
			file, err := header.Open()
			if err != nil {
				httpx.LogInternalError(w, "request.upload_template.open", err)
				return
			}
			questions, err := xlsx.ParseTemplateFile(header.Filename, file)
			file.Close()
			if err != nil {
				httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "request.upload_template.parse",
					"%s: %s", header.Filename, err)
				return
			}
			tpl.Questions = append(tpl.Questions, questions...)
		}

		id, err := app.Templates.Save(r.Context(), tpl)
		if err != nil {
			httpx.RenderDomainError(w, r, "db.save_template", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":        id,
			"questions": len(tpl.Questions),
		})
	}
}

func DeleteTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		if err := app.Templates.Delete(r.Context(), templateId); err != nil {
			httpx.RenderDomainError(w, r, "db.delete_template", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetTemplateSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		if _, err := app.Templates.Load(r.Context(), templateId); err != nil {
			httpx.RenderDomainError(w, r, "db.get_template", err)
			return
		}

		submissions, err := app.Submissions.ForTemplate(r.Context(), templateId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"submissions": submissions,
		})
	}
}

// ExportSubmissions streams the full submissions workbook.
func ExportSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.Submissions.ExportRows(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.export_submissions", err)
			return
		}

		filename := fmt.Sprintf("All_Submissions_Export_%s.xlsx", time.Now().Format("20060102"))
		w.Header().Set("content-type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("content-disposition", `attachment; filename="`+filename+`"`)

		if err := xlsx.WriteExport(w, rows); err != nil {
			log.Errorf("export.write: %s", err)
		}
	}
}
