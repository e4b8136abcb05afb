package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Masterminds/sprig/v3"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"go.uber.org/zap"
)

// View names
const (
	ViewIndex     = "index"
	ViewError     = "error"
	ViewCommunity = "community"
	ViewCreate    = "create"
	ViewEdit      = "edit"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer writes a named view with its model
type Renderer interface {
	Render(w http.ResponseWriter, status int, view string, model interface{}) error
}

// PlanFormModel is the model of the create and edit views
type PlanFormModel struct {
	Plan   *domain.TrainingPlan
	Errors map[string]string
}

// HasErrors reports whether the form failed validation
func (m PlanFormModel) HasErrors() bool {
	return len(m.Errors) > 0
}

// TemplateRenderer renders the embedded HTML templates
type TemplateRenderer struct {
	views map[string]*template.Template
}

// NewTemplateRenderer parses every view together with the shared layout
func NewTemplateRenderer() (*TemplateRenderer, error) {
	views := []string{ViewIndex, ViewError, ViewCommunity, ViewCreate, ViewEdit}

	r := &TemplateRenderer{views: make(map[string]*template.Template, len(views))}
	for _, name := range views {
		tmpl, err := template.New("layout.tmpl").
			Funcs(sprig.HtmlFuncMap()).
			ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s view: %w", name, err)
		}
		r.views[name] = tmpl
	}

	return r, nil
}

// Render writes nothing when the template fails
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, view string, model interface{}) error {
	tmpl, ok := r.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, model); err != nil {
		return fmt.Errorf("failed to render %s view: %w", view, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// newErrorViewModel builds the error page model for the current request
func newErrorViewModel(r *http.Request) domain.ErrorViewModel {
	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return domain.ErrorViewModel{RequestID: requestID}
}

// render writes a view, falling back to a plain 500 when rendering fails
func render(w http.ResponseWriter, r *http.Request, renderer Renderer, logger *zap.SugaredLogger, status int, view string, model interface{}) {
	if err := renderer.Render(w, status, view, model); err != nil {
		logger.Errorw("Failed to render view",
			"error", err,
			"view", view,
			"path", r.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderErrorPage writes the error view with the request's correlation id
func renderErrorPage(w http.ResponseWriter, r *http.Request, renderer Renderer, logger *zap.SugaredLogger, status int) {
	render(w, r, renderer, logger, status, ViewError, newErrorViewModel(r))
}
