package provider

import (
	stdErrors "errors"
	"fmt"

	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

// Wrap describes a failed upstream call.
// Status failures read "failed to <action> - status code N", undecodable bodies "failed to parse <subject>: ...".
func Wrap(err error, action string, subject string) error {
	if err == nil {
		return nil
	}

	var se *httpclient.StatusError
	if stdErrors.As(err, &se) {
		return fmt.Errorf("failed to %s - %w", action, err)
	}

	var de *httpclient.DecodeError
	if stdErrors.As(err, &de) {
		return fmt.Errorf("failed to parse %s: %w", subject, err)
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

// SearchError describes a failed search of idx.
func SearchError(idx packages.Index, err error) error {
	return Wrap(err, "search "+idx.DisplayName(), idx.DisplayName()+" search results")
}

// InfoError describes a failed package lookup on idx.
func InfoError(idx packages.Index, err error) error {
	return Wrap(err, "get package info from "+idx.DisplayName(), idx.DisplayName()+" package info")
}

// ParseError reports an upstream response that decoded but lacked required data.
func ParseError(url string, format string, args ...any) error {
	return &httpclient.DecodeError{URL: url, Err: fmt.Errorf(format, args...)}
}
