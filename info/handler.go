package info

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"

	"github.com/drblury/fnweaver/probe"
	"github.com/drblury/fnweaver/responder"
)

// InfoProvider returns the payload exposed by the version endpoint.
type InfoProvider func() any

// DocumentProvider returns the OpenAPI document served by the documentation
// endpoints. It runs on every request so a rebuilt application is reflected
// immediately.
type DocumentProvider func() (*openapi3.T, error)

// InfoOption configures an InfoHandler.
type InfoOption func(*InfoHandler)

// TemplateDataProvider allows callers to customise the data passed to the
// documentation template at render time.
type TemplateDataProvider func(r *http.Request, baseURL string) any

const defaultProbeTimeout = 2 * time.Second

// ProbeFunc is executed to determine the outcome of liveness or readiness
// probes. Returning a non-nil error marks the probe as failed.
type ProbeFunc = probe.Func

// InfoHandler serves probes, metadata and documentation.
type InfoHandler struct {
	*responder.Responder
	baseURL          string
	infoProvider     InfoProvider
	documentProvider DocumentProvider
	docsTemplate     *template.Template
	dataProvider     TemplateDataProvider
	probeTimeout     time.Duration
	livenessChecks   []ProbeFunc
	readinessChecks  []ProbeFunc
}

// NewInfoHandler constructs an InfoHandler with default collaborators.
func NewInfoHandler(opts ...InfoOption) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.NewResponder(),
		infoProvider: func() any {
			return map[string]string{}
		},
		documentProvider: func() (*openapi3.T, error) {
			return nil, errors.New("openapi document provider not configured")
		},
		docsTemplate: defaultDocsTemplate,
		dataProvider: defaultTemplateDataProvider,
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithInfoResponder replaces the responder used for JSON and problem
// responses.
func WithInfoResponder(responder *responder.Responder) InfoOption {
	return func(ih *InfoHandler) {
		if responder != nil {
			ih.Responder = responder
		}
	}
}

// WithBaseURL sets the URL prefix the documentation page loads the OpenAPI
// document from.
func WithBaseURL(baseURL string) InfoOption {
	return func(ih *InfoHandler) {
		ih.baseURL = baseURL
	}
}

// WithInfoProvider swaps the metadata provider.
func WithInfoProvider(provider InfoProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.infoProvider = provider
		}
	}
}

// WithDocumentProvider sets the source of the OpenAPI document.
func WithDocumentProvider(provider DocumentProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.documentProvider = provider
		}
	}
}

// WithDocsTemplate replaces the documentation page template.
func WithDocsTemplate(tmpl *template.Template) InfoOption {
	return func(ih *InfoHandler) {
		if tmpl != nil {
			ih.docsTemplate = tmpl
		}
	}
}

// WithDocsTemplateData overrides the data passed to the documentation
// template.
func WithDocsTemplateData(provider TemplateDataProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.dataProvider = provider
		}
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for probe checks.
func WithProbeTimeout(timeout time.Duration) InfoOption {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the liveness checks.
func WithLivenessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks replaces the readiness checks.
func WithReadinessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.readinessChecks = filterProbes(checks)
	}
}

// Register mounts the endpoints on r.
func (ih *InfoHandler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", ih.GetHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", ih.GetReadyz).Methods(http.MethodGet)
	r.HandleFunc("/version", ih.GetVersion).Methods(http.MethodGet)
	r.HandleFunc("/openapi.json", ih.GetOpenAPIJSON).Methods(http.MethodGet)
	r.HandleFunc("/docs", ih.GetDocs).Methods(http.MethodGet)
}

func defaultTemplateDataProvider(_ *http.Request, baseURL string) any {
	return map[string]any{
		"BaseURL": baseURL,
	}
}
