// Package openapi reads OpenAPI 2.x/3.x documents and turns their operations
// into tool descriptors: one Operation per supported (path, method) pair, each
// with a flat, located parameter list.
package openapi

import (
	"errors"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SupportedMethods lists the HTTP methods turned into tools, in enumeration order.
var SupportedMethods = []string{"get", "post", "put", "patch", "delete"}

// Spec is a parsed specification document. It is built once per load and
// never modified afterwards.
type Spec struct {
	OpenAPI     string             `yaml:"openapi"`
	Swagger     string             `yaml:"swagger"`
	Info        Info               `yaml:"info"`
	Servers     []Server           `yaml:"servers"`
	Host        string             `yaml:"host"`
	BasePath    string             `yaml:"basePath"`
	Schemes     []string           `yaml:"schemes"`
	Paths       Paths              `yaml:"paths"`
	Components  Components         `yaml:"components"`
	Parameters  ParameterTable     `yaml:"parameters"`  // Swagger 2 shared parameters
	Definitions map[string]*Schema `yaml:"definitions"` // Swagger 2 shared schemas

	source   string
	tree     any
	warnings []string
}

// Info is the document's info block.
type Info struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// Server is one entry of the 3.x servers list.
type Server struct {
	URL         string                    `yaml:"url"`
	Description string                    `yaml:"description"`
	Variables   map[string]ServerVariable `yaml:"variables"`
}

// ServerVariable is a substitution variable in a server URL.
type ServerVariable struct {
	Default string   `yaml:"default"`
	Enum    []string `yaml:"enum"`
}

// Components holds reusable definitions referenced via $ref.
type Components struct {
	Parameters    ParameterTable          `yaml:"parameters"`
	Schemas       map[string]*Schema      `yaml:"schemas"`
	RequestBodies map[string]*RequestBody `yaml:"requestBodies"`
}

// ParameterTable maps component names to parameter definitions.
type ParameterTable map[string]ParameterObject

// Paths is the path table in document order.
type Paths []PathItem

// PathItem holds the supported operations declared on one path template,
// keyed by lower-case method.
type PathItem struct {
	Path       string
	Operations map[string]*OperationObject
}

// OperationObject is an operation as written in the document.
type OperationObject struct {
	OperationID string            `yaml:"operationId"`
	Summary     string            `yaml:"summary"`
	Description string            `yaml:"description"`
	Tags        StringList        `yaml:"tags"`
	Parameters  []ParameterObject `yaml:"parameters"`
	RequestBody *RequestBody      `yaml:"requestBody"`
}

// ParameterObject is a parameter entry, possibly just a $ref stub.
type ParameterObject struct {
	Ref         string     `yaml:"$ref"`
	Name        string     `yaml:"name"`
	In          string     `yaml:"in"`
	Required    Flag       `yaml:"required"`
	Description string     `yaml:"description"`
	Type        SchemaType `yaml:"type"` // Swagger 2 inline type
	Schema      *Schema    `yaml:"schema"`
}

// RequestBody is a 3.x request body.
type RequestBody struct {
	Ref         string               `yaml:"$ref"`
	Description string               `yaml:"description"`
	Required    Flag                 `yaml:"required"`
	Content     map[string]MediaType `yaml:"content"`
}

// MediaType is one content-type entry of a request body.
type MediaType struct {
	Schema *Schema `yaml:"schema"`
}

// Schema is the subset of JSON Schema the classifier reads.
type Schema struct {
	Ref         string     `yaml:"$ref"`
	Type        SchemaType `yaml:"type"`
	Description string     `yaml:"description"`
	Properties  Properties `yaml:"properties"`
	Required    StringList `yaml:"required"`
	Items       *Schema    `yaml:"items"`
}

// Property is a named schema property.
type Property struct {
	Name   string
	Schema *Schema
}

// Properties keeps schema properties in document order.
type Properties []Property

// SchemaType accepts both `type: string` and the 3.1 form `type: [string, "null"]`.
type SchemaType string

// StringList tolerates non-list values (e.g. Swagger-style `required: true` on
// a schema) by treating them as empty.
type StringList []string

// Flag is a boolean that also accepts quoted forms such as "true".
// Values that do not parse as a boolean read as false.
type Flag bool

// Title returns the document title, or its source name when untitled.
func (s *Spec) Title() string {
	if s.Info.Title != "" {
		return s.Info.Title
	}
	return s.source
}

// Source returns the file name the document was loaded from.
func (s *Spec) Source() string {
	return s.source
}

// Warnings returns the decode problems tolerated while loading the document.
// Fields that failed to decode keep their zero value.
func (s *Spec) Warnings() []string {
	return s.warnings
}

// Document returns the generic nested form of the document
// (map[string]any / []any / scalars).
func (s *Spec) Document() any {
	return s.tree
}

// UnmarshalYAML decodes the path table, keeping document order.
func (p *Paths) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return nil
	}
	var terr typeErrors
	items := make(Paths, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], resolveAlias(value.Content[i+1])
		item := PathItem{Path: key.Value, Operations: map[string]*OperationObject{}}
		if val.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(val.Content); j += 2 {
				method := strings.ToLower(val.Content[j].Value)
				if !isSupportedMethod(method) {
					continue
				}
				op := &OperationObject{}
				if err := val.Content[j+1].Decode(op); err != nil && !terr.add(err) {
					return err
				}
				item.Operations[method] = op
			}
		}
		items = append(items, item)
	}
	*p = items
	return terr.err()
}

// UnmarshalYAML decodes schema properties, keeping document order.
func (p *Properties) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return nil
	}
	var terr typeErrors
	props := make(Properties, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var schema *Schema
		if node := resolveAlias(value.Content[i+1]); node.Kind == yaml.MappingNode {
			schema = &Schema{}
			if err := node.Decode(schema); err != nil && !terr.add(err) {
				return err
			}
		}
		props = append(props, Property{Name: value.Content[i].Value, Schema: schema})
	}
	*p = props
	return terr.err()
}

// UnmarshalYAML decodes mapping nodes only. Boolean schemas (`items: false`)
// and other non-mapping values leave the schema empty.
func (s *Schema) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return nil
	}
	type plain Schema
	return value.Decode((*plain)(s))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.ScalarNode {
		return nil
	}
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(value.Value)))
	*f = Flag(err == nil && b)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *SchemaType) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	switch value.Kind {
	case yaml.ScalarNode:
		*t = SchemaType(value.Value)
	case yaml.SequenceNode:
		for _, n := range value.Content {
			if n.Value != "" && n.Value != "null" {
				*t = SchemaType(n.Value)
				break
			}
		}
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.SequenceNode {
		return nil
	}
	out := make(StringList, 0, len(value.Content))
	for _, n := range value.Content {
		out = append(out, n.Value)
	}
	*l = out
	return nil
}

// Contains reports whether name is in the list.
func (l StringList) Contains(name string) bool {
	for _, s := range l {
		if s == name {
			return true
		}
	}
	return false
}

// typeErrors collects yaml type errors so one bad field does not abort the
// rest of a table.
type typeErrors []string

func (t *typeErrors) add(err error) bool {
	var te *yaml.TypeError
	if !errors.As(err, &te) {
		return false
	}
	*t = append(*t, te.Errors...)
	return true
}

func (t typeErrors) err() error {
	if len(t) == 0 {
		return nil
	}
	return &yaml.TypeError{Errors: t}
}

func isSupportedMethod(method string) bool {
	for _, m := range SupportedMethods {
		if m == method {
			return true
		}
	}
	return false
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
