package tools

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
)

// MaxTextLength is the number of characters process_text operates on.
const MaxTextLength = 10000

// TextOperations lists the operations accepted by process_text.
var TextOperations = []string{"uppercase", "lowercase", "title", "reverse", "length"}

// --- Tool definitions ---

func createProcessTextTool() mcp.Tool {
	return mcp.NewTool("process_text",
		mcp.WithDescription("Process text with various operations. Text is trimmed and limited to 10000 characters."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to process")),
		mcp.WithString("operation",
			mcp.Description("Operation to perform (default: uppercase)"),
			mcp.Enum(TextOperations...),
		),
	)
}

func createValidateDataTool() mcp.Tool {
	return mcp.NewTool("validate_data",
		mcp.WithDescription(`Validate data against rules. Each rule may set "required", "type" (int, float, str, bool, list, dict), "min" and "max". Example: {"age": {"type": "int", "min": 0, "max": 120}}`),
		mcp.WithObject("data", mcp.Required(), mcp.Description("Data to validate")),
		mcp.WithObject("rules", mcp.Required(), mcp.Description("Validation rules keyed by field name")),
	)
}

func createTransformJSONTool() mcp.Tool {
	return mcp.NewTool("transform_json",
		mcp.WithDescription(`Rename fields of a JSON object. Fields not in the mapping are kept unchanged. Example mapping: {"old_name": "new_name"}`),
		mcp.WithObject("data", mcp.Required(), mcp.Description("Input JSON object")),
		mcp.WithObject("transformations", mcp.Required(), mcp.Description("Field mappings from old name to new name")),
	)
}

// --- Handlers ---

func handleProcessText(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return failureResult(validationError("text is required")), nil
		}
		operation := request.GetString("operation", "uppercase")

		result, err := ProcessText(text, operation)
		if err != nil {
			return failureResult(err), nil
		}
		logger.Debug().Str("operation", operation).Msg("Processed text")
		return textResult(result), nil
	}
}

func handleValidateData(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := objectArg(request, "data")
		if err != nil {
			return failureResult(err), nil
		}
		rules, err := objectArg(request, "rules")
		if err != nil {
			return failureResult(err), nil
		}

		report := ValidateData(data, rules)
		logger.Debug().Bool("valid", report.Valid).Int("errors", len(report.Errors)).Msg("Validated data")
		return jsonResult(report), nil
	}
}

func handleTransformJSON(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := objectArg(request, "data")
		if err != nil {
			return failureResult(err), nil
		}
		raw, err := objectArg(request, "transformations")
		if err != nil {
			return failureResult(err), nil
		}

		mapping := make(map[string]string, len(raw))
		for oldKey, v := range raw {
			newKey, ok := v.(string)
			if !ok {
				return failureResult(validationError("transformation for %q must be a string", oldKey)), nil
			}
			mapping[oldKey] = newKey
		}

		result := TransformJSON(data, mapping)
		logger.Debug().Int("mappings", len(mapping)).Msg("Transformed JSON")
		return jsonResult(result), nil
	}
}

// --- Operations ---

// ProcessText trims text, limits it to MaxTextLength characters and applies
// operation.
func ProcessText(text, operation string) (string, error) {
	clean := strings.TrimSpace(text)
	if utf8.RuneCountInString(clean) > MaxTextLength {
		clean = string([]rune(clean)[:MaxTextLength])
	}

	switch operation {
	case "uppercase":
		return strings.ToUpper(clean), nil
	case "lowercase":
		return strings.ToLower(clean), nil
	case "title":
		return cases.Title(language.Und).String(clean), nil
	case "reverse":
		runes := []rune(clean)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	case "length":
		return strconv.Itoa(utf8.RuneCountInString(clean)), nil
	default:
		return "", newToolError(CodeValidation,
			fmt.Sprintf("Unknown operation: %s. Available: %s", operation, strings.Join(TextOperations, ", ")),
			map[string]any{"operation": operation})
	}
}

// ValidationReport is the result of ValidateData.
type ValidationReport struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	ValidatedFields int      `json:"validated_fields"`
}

// ValidateData checks data against rules. Fields are visited in name order
// so the error list is stable. Unknown type names are ignored.
func ValidateData(data, rules map[string]any) ValidationReport {
	errs := []string{}

	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		rule, _ := rules[field].(map[string]any)

		value, present := data[field]
		if !present {
			if required, _ := rule["required"].(bool); required {
				errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
			}
			continue
		}

		if typ, ok := rule["type"].(string); ok {
			if match, known := matchesType(value, typ); known && !match {
				errs = append(errs, fmt.Sprintf("Field '%s' must be %s, got %s", field, typ, typeName(value)))
			}
		}

		if n, ok := value.(float64); ok {
			if lo, ok := toFloat(rule["min"]); ok && n < lo {
				errs = append(errs, fmt.Sprintf("Field '%s' must be >= %s", field, formatNumber(lo)))
			}
			if hi, ok := toFloat(rule["max"]); ok && n > hi {
				errs = append(errs, fmt.Sprintf("Field '%s' must be <= %s", field, formatNumber(hi)))
			}
		}
	}

	return ValidationReport{
		Valid:           len(errs) == 0,
		Errors:          errs,
		ValidatedFields: len(data),
	}
}

// matchesType reports whether value has the named type. known is false for
// type names that are not recognised.
func matchesType(value any, typ string) (match, known bool) {
	switch typ {
	case "int":
		n, ok := value.(float64)
		return ok && n == math.Trunc(n), true
	case "float":
		_, ok := value.(float64)
		return ok, true
	case "str":
		_, ok := value.(string)
		return ok, true
	case "bool":
		_, ok := value.(bool)
		return ok, true
	case "list":
		_, ok := value.([]any)
		return ok, true
	case "dict":
		_, ok := value.(map[string]any)
		return ok, true
	default:
		return false, false
	}
}

func typeName(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float64:
		if v == math.Trunc(v) {
			return "int"
		}
		return "float"
	case string:
		return "str"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TransformJSON renames the keys of data according to mapping. Keys not in
// mapping are copied unchanged and take precedence over renamed keys with
// the same name. Mapping entries are applied in sorted order of their old
// key, so when two old keys share a new key the later one wins.
func TransformJSON(data map[string]any, mapping map[string]string) map[string]any {
	oldKeys := make([]string, 0, len(mapping))
	for k := range mapping {
		oldKeys = append(oldKeys, k)
	}
	sort.Strings(oldKeys)

	result := make(map[string]any, len(data))
	for _, oldKey := range oldKeys {
		if v, ok := data[oldKey]; ok {
			result[mapping[oldKey]] = v
		}
	}
	for k, v := range data {
		if _, mapped := mapping[k]; !mapped {
			result[k] = v
		}
	}
	return result
}

// --- Helpers ---

func objectArg(request mcp.CallToolRequest, key string) (map[string]any, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return nil, validationError("%s is required", key)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, validationError("%s must be an object", key)
	}
	return obj, nil
}
