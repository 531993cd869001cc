package main

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/drblury/fnweaver/internal/config"
	"github.com/drblury/fnweaver/jsonutil"
	"github.com/drblury/fnweaver/manifest"
)

func newOpenAPICommand(c *cli) *cobra.Command {
	var validate bool
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print an OpenAPI document describing the assembled endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.assemble()
			if err != nil {
				return err
			}
			doc := manifest.OpenAPI(c.cfg.Server.Title, c.cfg.Server.Version, a.Routes())
			if validate {
				if err := doc.Validate(cmd.Context()); err != nil {
					return fmt.Errorf("generated document is invalid: %w", err)
				}
			}
			return jsonutil.EncodeIndent(cmd.OutOrStdout(), doc)
		},
	}

	defaults := config.Default()
	cmd.Flags().String("title", defaults.Server.Title, "document title")
	cmd.Flags().String("api-version", defaults.Server.Version, "document version")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the document before printing it")
	return cmd
}

// loadDocument reads an OpenAPI document used for request validation.
func loadDocument(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document %s: %w", path, err)
	}
	return doc, nil
}
