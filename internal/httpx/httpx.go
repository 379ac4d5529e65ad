// Package httpx provides helper functions for creating Lambda responses:
// API Gateway JSON responses and agent-gateway tool envelopes.
package httpx

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// JSON creates a JSON HTTP response with the given status code and value.
func JSON(status int, v any) (events.APIGatewayProxyResponse, error) {
	b, _ := json.Marshal(v)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(b),
	}, nil
}

// Error creates a JSON HTTP error response with the given status code,
// message and error type label.
func Error(status int, msg, errType string) (events.APIGatewayProxyResponse, error) {
	return JSON(status, map[string]string{"error": msg, "error_type": errType})
}

// ToolResult is the content envelope the agent gateway expects from a tool
// Lambda.
type ToolResult struct {
	Content []ToolContent `json:"content"`
}

// ToolContent is one block of a tool result.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolJSON wraps a value as an indented JSON text block in the gateway
// content envelope.
func ToolJSON(v any) (ToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolError(err), nil
	}
	return ToolResult{Content: []ToolContent{{Type: "text", Text: string(b)}}}, nil
}

// ToolError wraps an error in the gateway content envelope. Tool calls
// report failures in-band; the Lambda itself still succeeds.
func ToolError(err error) ToolResult {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return ToolResult{Content: []ToolContent{{Type: "text", Text: string(b)}}}
}
