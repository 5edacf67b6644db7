// Package tools provides the direct tools served alongside tools
// synthesized from API descriptions.
package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	mcpx "github.com/bobmcallan/agentcore-mcp/internal/mcp"
)

type definition struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func definitions(logger *common.Logger) []definition {
	return []definition{
		{createAddTool(), handleAdd(logger)},
		{createSubtractTool(), handleSubtract(logger)},
		{createMultiplyTool(), handleMultiply(logger)},
		{createDivideTool(), handleDivide(logger)},
		{createPowerTool(), handlePower(logger)},
		{createAverageTool(), handleAverage(logger)},
		{createStatisticsTool(), handleStatistics(logger)},
		{createProcessTextTool(), handleProcessText(logger)},
		{createValidateDataTool(), handleValidateData(logger)},
		{createTransformJSONTool(), handleTransformJSON(logger)},
	}
}

// Register registers every direct tool with r and returns how many were
// registered. It stops at the first registration error.
func Register(r mcpx.Registrar, logger *common.Logger) (int, error) {
	count := 0
	for _, d := range definitions(logger) {
		if err := r.Register(d.tool, d.handler); err != nil {
			return count, fmt.Errorf("register %s: %w", d.tool.Name, err)
		}
		count++
	}
	logger.Info().Int("count", count).Msg("Registered direct tools")
	return count, nil
}
