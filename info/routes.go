package info

import (
	"errors"
	"net/http"

	"github.com/drblury/fnweaver/jsonutil"
)

// GetHealthz implements the liveness probe.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.livenessChecks); err != nil {
		ih.HandleServiceUnavailableError(w, r, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ok")
}

// GetReadyz implements the readiness probe.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.readinessChecks); err != nil {
		ih.HandleServiceUnavailableError(w, r, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ready")
}

// GetVersion returns the payload of the configured InfoProvider.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.infoProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetOpenAPIJSON renders the current OpenAPI document.
func (ih *InfoHandler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := ih.documentProvider()
	if err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to load openapi document")
		return
	}
	if doc == nil {
		ih.HandleServiceUnavailableError(w, r, errors.New("no routes assembled yet"), "openapi document unavailable")
		return
	}

	body, err := jsonutil.Marshal(doc)
	if err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to encode openapi document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(body); err != nil {
		ih.Logger().Error("failed to write openapi response", "error", err)
	}
}

// GetDocs renders an HTML viewer that fetches the OpenAPI document from the
// JSON endpoint.
func (ih *InfoHandler) GetDocs(w http.ResponseWriter, r *http.Request) {
	if ih.docsTemplate == nil {
		err := errors.New("docs template not configured")
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render docs template")
		return
	}

	var data any
	if ih.dataProvider != nil {
		data = ih.dataProvider(r, ih.baseURL)
	}
	if data == nil {
		data = defaultTemplateDataProvider(r, ih.baseURL)
	}

	w.Header().Set("Content-Type", "text/html")
	if err := ih.docsTemplate.Execute(w, data); err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render docs template")
		return
	}
}
