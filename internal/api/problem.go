package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/sells-group/bep-cli/internal/importer"
	"github.com/sells-group/bep-cli/internal/intake"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/store"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type     string                  `json:"type"`
	Title    string                  `json:"title"`
	Status   int                     `json:"status"`
	Detail   string                  `json:"detail,omitempty"`
	Instance string                  `json:"instance,omitempty"`
	TraceID  string                  `json:"trace_id,omitempty"`
	Issues   []model.ValidationIssue `json:"issues,omitempty"`
}

// Render implements render.Renderer.
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

func newProblem(r *http.Request, status int, detail string) *Problem {
	return &Problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
		TraceID:  middleware.GetReqID(r.Context()),
	}
}

func renderProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	_ = render.Render(w, r, newProblem(r, status, detail))
}

// renderError maps pipeline and store errors to HTTP problems.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		renderProblem(w, r, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
	case errors.Is(err, intake.ErrUnrecognizedFormat),
		errors.Is(err, importer.ErrDecode),
		errors.Is(err, importer.ErrSheetNotFound):
		renderProblem(w, r, http.StatusUnprocessableEntity, userMessage(err))
	case errors.Is(err, store.ErrNotValidated):
		renderProblem(w, r, http.StatusUnprocessableEntity, store.ErrNotValidated.Error())
	case errors.Is(err, store.ErrNotFound):
		renderProblem(w, r, http.StatusNotFound, store.ErrNotFound.Error())
	default:
		zap.L().Error("api: internal error", zap.String("path", r.URL.Path), zap.Error(err))
		renderProblem(w, r, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, intake.ErrUnrecognizedFormat):
		return intake.ErrUnrecognizedFormat.Error()
	case errors.Is(err, importer.ErrSheetNotFound):
		return "the workbook is missing a required sheet; upload an unmodified .xlsx file"
	default:
		return "the file could not be read as a workbook; upload an unmodified .xlsx file"
	}
}
