package tools

import (
	"context"
	"math"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
)

// --- Tool definitions ---

func binaryTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithNumber("a", mcp.Required(), mcp.Description("First number")),
		mcp.WithNumber("b", mcp.Required(), mcp.Description("Second number")),
	)
}

func createAddTool() mcp.Tool {
	return binaryTool("add_numbers", "Add two numbers together.")
}

func createSubtractTool() mcp.Tool {
	return binaryTool("subtract_numbers", "Subtract b from a.")
}

func createMultiplyTool() mcp.Tool {
	return binaryTool("multiply_numbers", "Multiply two numbers.")
}

func createDivideTool() mcp.Tool {
	return mcp.NewTool("divide_numbers",
		mcp.WithDescription("Divide a by b. Fails when b is zero."),
		mcp.WithNumber("a", mcp.Required(), mcp.Description("Numerator")),
		mcp.WithNumber("b", mcp.Required(), mcp.Description("Denominator (cannot be zero)")),
	)
}

func createPowerTool() mcp.Tool {
	return mcp.NewTool("power",
		mcp.WithDescription("Raise base to the power of exponent."),
		mcp.WithNumber("base", mcp.Required(), mcp.Description("Base number")),
		mcp.WithNumber("exponent", mcp.Required(), mcp.Description("Exponent")),
	)
}

func numbersTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithArray("numbers",
			mcp.Required(),
			mcp.Description("List of numbers"),
			mcp.Items(map[string]any{"type": "number"}),
		),
	)
}

func createAverageTool() mcp.Tool {
	return numbersTool("calculate_average", "Calculate the average of a list of numbers.")
}

func createStatisticsTool() mcp.Tool {
	return numbersTool("calculate_statistics",
		"Calculate count, sum, average, min, max and median of a list of numbers.")
}

// --- Handlers ---

// binaryHandler reads the two named operands and applies op.
func binaryHandler(logger *common.Logger, name, left, right string, op func(x, y float64) (float64, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		x, err := request.RequireFloat(left)
		if err != nil {
			return failureResult(validationError("%s must be a number", left)), nil
		}
		y, err := request.RequireFloat(right)
		if err != nil {
			return failureResult(validationError("%s must be a number", right)), nil
		}

		result, err := op(x, y)
		if err != nil {
			logger.Debug().Str("tool", name).Err(err).Msg("Calculation failed")
			return failureResult(err), nil
		}
		return numberResult(result), nil
	}
}

func handleAdd(logger *common.Logger) server.ToolHandlerFunc {
	return binaryHandler(logger, "add_numbers", "a", "b", func(x, y float64) (float64, error) {
		return x + y, nil
	})
}

func handleSubtract(logger *common.Logger) server.ToolHandlerFunc {
	return binaryHandler(logger, "subtract_numbers", "a", "b", func(x, y float64) (float64, error) {
		return x - y, nil
	})
}

func handleMultiply(logger *common.Logger) server.ToolHandlerFunc {
	return binaryHandler(logger, "multiply_numbers", "a", "b", func(x, y float64) (float64, error) {
		return x * y, nil
	})
}

func handleDivide(logger *common.Logger) server.ToolHandlerFunc {
	return binaryHandler(logger, "divide_numbers", "a", "b", Divide)
}

func handlePower(logger *common.Logger) server.ToolHandlerFunc {
	return binaryHandler(logger, "power", "base", "exponent", func(x, y float64) (float64, error) {
		return math.Pow(x, y), nil
	})
}

func handleAverage(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		numbers, err := numbersArg(request)
		if err != nil {
			return failureResult(err), nil
		}
		avg, err := Average(numbers)
		if err != nil {
			return failureResult(err), nil
		}
		return numberResult(avg), nil
	}
}

func handleStatistics(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		numbers, err := numbersArg(request)
		if err != nil {
			return failureResult(err), nil
		}
		stats, err := Statistics(numbers)
		if err != nil {
			return failureResult(err), nil
		}
		logger.Debug().Int("count", stats.Count).Msg("Calculated statistics")
		return jsonResult(stats), nil
	}
}

// --- Calculations ---

// Divide returns a / b, or a division_by_zero error when b is zero.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, newToolError(CodeDivisionByZero, "Cannot divide by zero",
			map[string]any{"numerator": a, "denominator": b})
	}
	return a / b, nil
}

// Average returns the arithmetic mean of numbers.
func Average(numbers []float64) (float64, error) {
	if len(numbers) == 0 {
		return 0, newToolError(CodeEmptyList, "Cannot calculate average of empty list",
			map[string]any{"numbers": []float64{}})
	}
	return sum(numbers) / float64(len(numbers)), nil
}

// Stats summarises a list of numbers.
type Stats struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
}

// Statistics computes Stats for numbers. The median of an even-length list
// is the mean of the two middle values.
func Statistics(numbers []float64) (Stats, error) {
	if len(numbers) == 0 {
		return Stats{}, newToolError(CodeEmptyList, "Cannot calculate statistics of empty list",
			map[string]any{"numbers": []float64{}})
	}

	sorted := append([]float64(nil), numbers...)
	sort.Float64s(sorted)

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	total := sum(sorted)
	return Stats{
		Count:   n,
		Sum:     total,
		Average: total / float64(n),
		Min:     sorted[0],
		Max:     sorted[n-1],
		Median:  median,
	}, nil
}

func sum(numbers []float64) float64 {
	var total float64
	for _, v := range numbers {
		total += v
	}
	return total
}

// --- Helpers ---

// numberResult renders a finite number as JSON text. Infinities and NaN
// cannot be represented and are reported as math errors.
func numberResult(v float64) *mcp.CallToolResult {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return failureResult(newToolError(CodeMath, "Result is not a finite number", nil))
	}
	return jsonResult(v)
}

// numbersArg reads the required "numbers" array argument.
func numbersArg(request mcp.CallToolRequest) ([]float64, error) {
	raw, ok := request.GetArguments()["numbers"]
	if !ok || raw == nil {
		return nil, validationError("numbers is required")
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, validationError("numbers must be an array of numbers")
	}
	out := make([]float64, 0, len(items))
	for i, item := range items {
		v, ok := toFloat(item)
		if !ok {
			return nil, validationError("numbers[%d] must be a number", i)
		}
		out = append(out, v)
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
