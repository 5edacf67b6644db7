package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

// Validate performs a best-effort structural validation of the document.
// Callers treat a non-nil error as a warning: the raw structure is still usable.
func (s *Spec) Validate(ctx context.Context) error {
	if s.tree == nil {
		return fmt.Errorf("empty document")
	}
	data, err := json.Marshal(s.tree)
	if err != nil {
		return fmt.Errorf("document is not JSON-representable: %w", err)
	}

	switch {
	case strings.HasPrefix(s.OpenAPI, "3."):
		loader := openapi3.NewLoader()
		loader.Context = ctx
		loader.IsExternalRefsAllowed = false
		doc, err := loader.LoadFromData(data)
		if err != nil {
			return fmt.Errorf("openapi %s: %w", s.OpenAPI, err)
		}
		if err := doc.Validate(ctx); err != nil {
			return fmt.Errorf("openapi %s: %w", s.OpenAPI, err)
		}
		return nil

	case strings.HasPrefix(s.Swagger, "2."):
		var doc2 openapi2.T
		if err := json.Unmarshal(data, &doc2); err != nil {
			return fmt.Errorf("swagger %s: %w", s.Swagger, err)
		}
		doc3, err := openapi2conv.ToV3(&doc2)
		if err != nil {
			return fmt.Errorf("swagger %s: %w", s.Swagger, err)
		}
		if err := doc3.Validate(ctx); err != nil {
			return fmt.Errorf("swagger %s: %w", s.Swagger, err)
		}
		return nil
	}

	return fmt.Errorf("unrecognized document version (openapi=%q swagger=%q)", s.OpenAPI, s.Swagger)
}
