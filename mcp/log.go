package mcp

import (
	"log"

	"github.com/spf13/viper"
)

// Stdout belongs to the MCP transport, so diagnostics go through the
// standard logger (stderr) and only when verbose mode is on.

func logInfo(msg string) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP] %s", msg)
	}
}

func logError(err error) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP] ERROR: %v", err)
	}
}

func logToolCall(name string, params interface{}) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP] tool call: %s params=%+v", name, params)
	}
}
