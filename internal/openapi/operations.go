package openapi

import (
	"fmt"
	"strings"
)

// Location is where in an HTTP request a parameter value is carried.
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
	LocationBody   Location = "body"
)

// Operation describes one (path, method) pair of a specification.
type Operation struct {
	Name        string
	Summary     string
	Description string
	Path        string // template with {param} placeholders
	Method      string // upper case
	Tags        []string
	Parameters  []Parameter
}

// Parameter is one named, typed, located input of an operation.
type Parameter struct {
	Name        string
	Location    Location
	Required    bool
	Type        string
	Description string
}

var pathStripper = strings.NewReplacer("/", "", "{", "", "}", "")

// ToolName derives the tool name for an operation: the operationId when
// declared, otherwise method_path with '/', '{' and '}' removed. Hyphens
// become underscores in both cases.
func ToolName(method, path, operationID string) string {
	name := operationID
	if name == "" {
		name = strings.ToLower(method) + "_" + pathStripper.Replace(path)
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Enumerate returns one Operation per supported method on every path, in
// document path order and GET, POST, PUT, PATCH, DELETE method order.
func Enumerate(spec *Spec) []Operation {
	if spec == nil {
		return nil
	}
	var ops []Operation
	for _, item := range spec.Paths {
		for _, method := range SupportedMethods {
			obj, ok := item.Operations[method]
			if !ok {
				continue
			}
			if obj == nil {
				obj = &OperationObject{}
			}
			ops = append(ops, describe(spec, item.Path, method, obj))
		}
	}
	return ops
}

func describe(spec *Spec, path, method string, obj *OperationObject) Operation {
	upper := strings.ToUpper(method)

	summary := obj.Summary
	if summary == "" {
		summary = fmt.Sprintf("%s %s", upper, path)
	}
	description := obj.Description
	if description == "" {
		description = summary
	}

	return Operation{
		Name:        ToolName(method, path, obj.OperationID),
		Summary:     summary,
		Description: description,
		Path:        path,
		Method:      upper,
		Tags:        obj.Tags,
		Parameters:  ClassifyParameters(obj, spec),
	}
}
