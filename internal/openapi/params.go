package openapi

import (
	"mime"
	"sort"
	"strings"
)

const defaultParamType = "string"

// ClassifyParameters merges an operation's explicit parameters and its JSON
// request-body properties into one ordered list. Explicit parameters come
// first, in document order; body properties follow with Location body.
// Names are not de-duplicated across the two sources.
//
// $ref entries get a single lookup by trailing segment. Nested references are
// not followed, and a failed lookup keeps the stub as-is.
func ClassifyParameters(op *OperationObject, spec *Spec) []Parameter {
	if op == nil {
		return nil
	}
	params := make([]Parameter, 0, len(op.Parameters))

	for _, p := range op.Parameters {
		if p.Ref != "" {
			p = spec.lookupParameter(p)
		}
		params = append(params, Parameter{
			Name:        p.Name,
			Location:    Location(p.In),
			Required:    bool(p.Required),
			Type:        spec.paramType(p),
			Description: p.Description,
		})
	}

	schema := spec.requestBodySchema(op.RequestBody)
	if schema == nil {
		return params
	}
	for _, prop := range schema.Properties {
		param := Parameter{
			Name:     prop.Name,
			Location: LocationBody,
			Required: schema.Required.Contains(prop.Name),
			Type:     spec.schemaType(prop.Schema),
		}
		if prop.Schema != nil {
			param.Description = prop.Schema.Description
		}
		params = append(params, param)
	}
	return params
}

func refName(ref string) string {
	return ref[strings.LastIndex(ref, "/")+1:]
}

// lookupParameter resolves a parameter stub against the component-parameter
// table. Names missing there are looked up in the Swagger 2 top-level table.
func (s *Spec) lookupParameter(stub ParameterObject) ParameterObject {
	if s == nil {
		return stub
	}
	name := refName(stub.Ref)
	if p, ok := s.Components.Parameters[name]; ok {
		return p
	}
	if p, ok := s.Parameters[name]; ok {
		return p
	}
	return stub
}

func (s *Spec) lookupSchema(ref string) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	name := refName(ref)
	if schema, ok := s.Components.Schemas[name]; ok && schema != nil {
		return schema, true
	}
	if schema, ok := s.Definitions[name]; ok && schema != nil {
		return schema, true
	}
	return nil, false
}

func (s *Spec) paramType(p ParameterObject) string {
	if p.Schema != nil {
		if t := s.schemaTypeOrEmpty(p.Schema); t != "" {
			return t
		}
	}
	if p.Type != "" {
		return string(p.Type)
	}
	return defaultParamType
}

func (s *Spec) schemaType(schema *Schema) string {
	if t := s.schemaTypeOrEmpty(schema); t != "" {
		return t
	}
	return defaultParamType
}

func (s *Spec) schemaTypeOrEmpty(schema *Schema) string {
	if schema == nil {
		return ""
	}
	if schema.Type != "" {
		return string(schema.Type)
	}
	if schema.Ref != "" {
		if resolved, ok := s.lookupSchema(schema.Ref); ok {
			return string(resolved.Type)
		}
	}
	return ""
}

// requestBodySchema returns the JSON schema of a request body, preferring
// application/json over other JSON media types.
func (s *Spec) requestBodySchema(rb *RequestBody) *Schema {
	if rb == nil {
		return nil
	}
	if rb.Ref != "" {
		if s == nil {
			return nil
		}
		resolved, ok := s.Components.RequestBodies[refName(rb.Ref)]
		if !ok || resolved == nil {
			return nil
		}
		rb = resolved
	}

	media, ok := rb.Content["application/json"]
	if !ok {
		keys := make([]string, 0, len(rb.Content))
		for k := range rb.Content {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if isJSONMediaType(k) {
				media, ok = rb.Content[k], true
				break
			}
		}
	}
	if !ok || media.Schema == nil {
		return nil
	}

	schema := media.Schema
	if schema.Ref != "" && len(schema.Properties) == 0 {
		if resolved, found := s.lookupSchema(schema.Ref); found {
			schema = resolved
		}
	}
	return schema
}

func isJSONMediaType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt == "application/json" || strings.HasSuffix(mt, "/json") || strings.HasSuffix(mt, "+json")
}
