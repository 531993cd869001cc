// Package manifest summarises an assembled export map and describes its
// routes as an OpenAPI document.
package manifest

import (
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/fnweaver/endpoint"
	"github.com/drblury/fnweaver/export"
	"github.com/drblury/fnweaver/jsonutil"
)

// Manifest lists what each group deploys.
type Manifest struct {
	Groups []Group `json:"groups"`
}

// Group is the deployable namespace of one group.
type Group struct {
	Name       string           `json:"name"`
	Functions  []string         `json:"functions"`
	EntryPoint bool             `json:"entryPoint"`
	Routes     []endpoint.Route `json:"routes,omitempty"`
}

// Build summarises exports. Routes are attached to the group they were
// registered for.
func Build(exports export.Map, routes []endpoint.Route) Manifest {
	byGroup := make(map[string][]endpoint.Route)
	for _, r := range routes {
		byGroup[r.Group] = append(byGroup[r.Group], r)
	}

	m := Manifest{Groups: make([]Group, 0, len(exports))}
	for _, name := range exports.Groups() {
		_, hasEntry := exports.EntryPoint(name)
		m.Groups = append(m.Groups, Group{
			Name:       name,
			Functions:  exports[name].Functions(),
			EntryPoint: hasEntry,
			Routes:     byGroup[name],
		})
	}
	return m
}

// WriteJSON writes m as indented JSON.
func (m Manifest) WriteJSON(w io.Writer) error {
	return jsonutil.EncodeIndent(w, m)
}

// OpenAPI describes routes as an OpenAPI 3 document. A method and path pair
// registered by several groups is documented once, for the first group,
// because that is the route the application serves.
func OpenAPI(title, version string, routes []endpoint.Route) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
	}

	for _, r := range routes {
		item := doc.Paths.Value(r.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(r.Path, item)
		}
		if item.GetOperation(string(r.Method)) != nil {
			continue
		}
		item.SetOperation(string(r.Method), operation(r))
	}
	return doc
}

func operation(r endpoint.Route) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = r.Name
	op.Summary = r.Name
	if r.Group != "" {
		op.Tags = []string{r.Group}
	}

	responses := openapi3.NewResponses()
	responses.Set("200", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(http.StatusText(http.StatusOK)),
	})
	responses.Set("default", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("Problem details").
			WithContent(openapi3.NewContentWithJSONSchema(problemSchema())),
	})
	op.Responses = responses
	return op
}

func problemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewIntegerSchema()).
		WithProperty("detail", openapi3.NewStringSchema()).
		WithProperty("instance", openapi3.NewStringSchema())
}
