package server

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// TransportStdio serves a single client over standard input/output (default).
	TransportStdio Transport = "stdio"

	// TransportSSE serves clients over the legacy HTTP+SSE transport.
	TransportSSE Transport = "sse"

	// TransportStreamableHTTP serves clients over the streamable HTTP transport.
	TransportStreamableHTTP Transport = "streamable-http"
)

// Transport is the mechanism the MCP server is exposed over.
// It implements pflag.Value so it can be bound directly to a flag.
type Transport string

type Transports []Transport

// AllTransports returns all supported transport types.
func AllTransports() Transports {
	return Transports{
		TransportStdio,
		TransportSSE,
		TransportStreamableHTTP,
	}
}

// ParseTransport parses a transport name, accepting "http" as an alias of streamable-http.
func ParseTransport(v string) (Transport, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "http" {
		return TransportStreamableHTTP, nil
	}
	t := Transport(v)
	if !slices.Contains(AllTransports(), t) {
		return "", fmt.Errorf("invalid transport '%s', must be one of %s", v, AllTransports().String())
	}
	return t, nil
}

// IsHTTP reports whether the transport listens on a network address.
func (t Transport) IsHTTP() bool {
	return t == TransportSSE || t == TransportStreamableHTTP
}

func (t *Transport) Set(v string) error {
	parsed, err := ParseTransport(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *Transport) String() string {
	return string(*t)
}

func (t *Transport) Type() string {
	return "transport"
}

// ToStrings converts a slice of Transport to a slice of strings.
func (t Transports) ToStrings() []string {
	result := make([]string, len(t))
	for i, transport := range t {
		result[i] = string(transport)
	}
	return result
}

func (t Transports) String() string {
	return strings.Join(t.ToStrings(), ", ")
}
