package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bep-cli/internal/exporter"
	"github.com/sells-group/bep-cli/internal/intake"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/report"
	"github.com/sells-group/bep-cli/internal/sensitivity"
	"github.com/sells-group/bep-cli/internal/store"
	"github.com/sells-group/bep-cli/internal/validate"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// importResponse is the body of POST /import.
type importResponse struct {
	*intake.Outcome
	OK      bool           `json:"ok"`
	Project *model.Project `json:"project,omitempty"`
}

// handleImport accepts a multipart upload in the "file" field. With ?save=NAME
// a successfully validated export is also stored as a project.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		if isTooLarge(err) {
			renderProblem(w, r, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		renderProblem(w, r, http.StatusBadRequest, "expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		renderProblem(w, r, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		renderError(w, r, eris.Wrap(err, "api: read upload"))
		return
	}

	out, err := s.intake.Import(r.Context(), data, header.Filename)
	if err != nil {
		renderError(w, r, err)
		return
	}
	resp := importResponse{Outcome: out, OK: out.OK()}

	if name := r.URL.Query().Get("save"); name != "" {
		if s.store == nil {
			renderProblem(w, r, http.StatusServiceUnavailable, "project storage is not configured")
			return
		}
		if out.Single == nil {
			renderProblem(w, r, http.StatusUnprocessableEntity, "only exported workbooks can be saved as a project")
			return
		}
		p, err := s.store.SaveProject(r.Context(), name, *out.Single)
		if err != nil {
			renderError(w, r, err)
			return
		}
		resp.Project = p
	}

	render.JSON(w, r, resp)
}

// handleExport validates a JSON record and answers with the workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var cand model.Candidate
	if err := render.DecodeJSON(r.Body, &cand); err != nil {
		renderProblem(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := validate.Validate(cand)
	if !res.OK {
		p := newProblem(r, http.StatusUnprocessableEntity, "the record failed validation")
		p.Issues = res.Issues
		_ = render.Render(w, r, p)
		return
	}

	snap, err := exporter.NewSnapshot(*res.Value)
	if err != nil {
		renderProblem(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	wb, err := exporter.Build(snap, exporter.Options{
		FileName: r.URL.Query().Get("filename"),
		Now:      s.opts.Now,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	defer wb.Close() //nolint:errcheck

	data, err := wb.Bytes()
	if err != nil {
		renderError(w, r, err)
		return
	}
	writeAttachment(w, xlsxContentType, wb.Name, data)
}

// sensitivityRequest selects chart mode (Axis) or table mode (Table).
type sensitivityRequest struct {
	Price        float64    `json:"price"`
	UnitCost     float64    `json:"unitCost"`
	FixedCost    float64    `json:"fixedCost"`
	TargetProfit *float64   `json:"targetProfit,omitempty"`
	Axis         model.Axis `json:"axis,omitempty"`
	Table        bool       `json:"table,omitempty"`
}

type sensitivityResponse struct {
	Axis   model.Axis               `json:"axis,omitempty"`
	Points []model.SensitivityPoint `json:"points,omitempty"`
	Rows   []model.SensitivityRow   `json:"rows,omitempty"`
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req sensitivityRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderProblem(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := model.CalculationInputs{
		Price:        req.Price,
		UnitCost:     req.UnitCost,
		FixedCost:    req.FixedCost,
		TargetProfit: req.TargetProfit,
	}
	if req.Table {
		render.JSON(w, r, sensitivityResponse{Rows: sensitivity.ExportTable(in)})
		return
	}

	axis := req.Axis
	if axis == "" {
		axis = model.AxisPrice
	}
	if axis != model.AxisPrice && axis != model.AxisUnitCost {
		renderProblem(w, r, http.StatusBadRequest, fmt.Sprintf("axis must be %q or %q", model.AxisPrice, model.AxisUnitCost))
		return
	}
	points := sensitivity.ChartSeries(sensitivity.ChartInputFrom(in), axis)
	render.JSON(w, r, sensitivityResponse{Axis: axis, Points: points})
}

// handleReport turns a JSON list of issues into the CSV error report.
// ?source= names the uploaded file the report is for.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var issues []model.ValidationIssue
	if err := render.DecodeJSON(r.Body, &issues); err != nil {
		renderProblem(w, r, http.StatusBadRequest, "expected a JSON array of issues")
		return
	}
	data, err := report.CSV(issues)
	if err != nil {
		renderError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", report.FileName(r.URL.Query().Get("source")), data)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		renderProblem(w, r, http.StatusServiceUnavailable, "project storage is not configured")
		return
	}
	q := r.URL.Query()
	filter := store.ProjectFilter{Name: q.Get("name")}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	projects, err := s.store.ListProjects(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	render.JSON(w, r, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		renderProblem(w, r, http.StatusServiceUnavailable, "project storage is not configured")
		return
	}
	p, err := s.store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, p)
}

func writeAttachment(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, bytes.NewReader(data))
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}
