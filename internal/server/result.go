package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
)

// indentJSON renders v as two-space indented JSON, without escaping HTML characters.
func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// textResult renders a heading followed by the indented JSON of v.
func textResult(heading string, v any) *mcp.CallToolResult {
	body, err := indentJSON(v)
	if err != nil {
		return mcp.NewToolResultError(message(err))
	}
	return mcp.NewToolResultText(heading + "\n" + body)
}

// toolError reports err to the client as a failed tool call, so the model can see and react to it.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(message(err))
}

// message is the client facing text of err, starting with an upper case letter.
func message(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
