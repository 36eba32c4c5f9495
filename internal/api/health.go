package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/oborchers/mcp-server-pacman/internal/health"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

const (
	HealthStatusOK          HealthStatus = "ok"
	HealthStatusTimeout     HealthStatus = "timeout"
	HealthStatusUnreachable HealthStatus = "unreachable"
	HealthStatusError       HealthStatus = "error"
	HealthStatusUnknown     HealthStatus = "unknown"
)

// DomainIndexHealth is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainIndexHealth health.IndexHealth

// HealthStatus represents the last observed status of a package index.
type HealthStatus string

// IndexHealth is used to provide information about the requests made to a package index.
type IndexHealth struct {
	Index          string       `json:"index"`
	Status         HealthStatus `json:"status"`
	Latency        *string      `json:"latency,omitempty"`
	LastChecked    *time.Time   `json:"lastChecked,omitempty"`
	LastSuccessful *time.Time   `json:"lastSuccessful,omitempty"`
	LastError      string       `json:"lastError,omitempty"`
}

// IndicesHealthResponse is the response for GET /health/indices
type IndicesHealthResponse struct {
	Body struct {
		Indices []IndexHealth `doc:"Tracked package index health statuses" json:"indices"`
	}
}

// IndexHealthRequest represents the incoming request for obtaining IndexHealth.
type IndexHealthRequest struct {
	Index string `doc:"Name of the index to check" example:"pypi" path:"index"`
}

// IndexHealthResponse represents the wrapped API response for an IndexHealth.
type IndexHealthResponse struct {
	Body IndexHealth
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainIndexHealth) ToAPIType() (IndexHealth, error) {
	status, err := parseHealthStatus(d.Status)
	if err != nil {
		return IndexHealth{}, err
	}

	var latency *string
	if d.Latency != nil {
		s := time.Duration(*d.Latency).String()
		latency = &s
	}
	return IndexHealth{
		Index:          string(d.Index),
		Status:         status,
		Latency:        latency,
		LastChecked:    d.LastChecked,
		LastSuccessful: d.LastSuccessful,
		LastError:      d.LastError,
	}, nil
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, monitor HealthMonitor, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Health"}

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "listIndicesHealth",
			Method:      http.MethodGet,
			Path:        "/indices",
			Summary:     "List the health statuses for all indices",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*IndicesHealthResponse, error) {
			return handleHealthIndices(monitor)
		},
	)

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "getIndexHealth",
			Method:      http.MethodGet,
			Path:        "/indices/{index}",
			Summary:     "Get the health status of an index",
			Tags:        tags,
		},
		func(ctx context.Context, input *IndexHealthRequest) (*IndexHealthResponse, error) {
			return handleHealthIndex(monitor, input.Index)
		},
	)
}

// handleHealthIndices is the handler for retrieving the current health of all tracked indices.
func handleHealthIndices(monitor HealthMonitor) (*IndicesHealthResponse, error) {
	wrapped := make([]DomainIndexHealth, 0)
	for _, h := range monitor.List() {
		wrapped = append(wrapped, DomainIndexHealth(h))
	}

	indices, err := convertAll[IndexHealth](wrapped)
	if err != nil {
		return nil, err
	}

	resp := &IndicesHealthResponse{}
	resp.Body.Indices = indices

	return resp, nil
}

// handleHealthIndex is the handler for retrieving the current health of the specified index.
func handleHealthIndex(monitor HealthMonitor, name string) (*IndexHealthResponse, error) {
	idx, err := packages.ParseIndex(name)
	if err != nil {
		return nil, err
	}

	h, err := monitor.Status(idx)
	if err != nil {
		return nil, err
	}

	data, err := DomainIndexHealth(h).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &IndexHealthResponse{Body: data}, nil
}

func parseHealthStatus(status health.Status) (HealthStatus, error) {
	switch status {
	case health.StatusOK:
		return HealthStatusOK, nil
	case health.StatusTimeout:
		return HealthStatusTimeout, nil
	case health.StatusUnreachable:
		return HealthStatusUnreachable, nil
	case health.StatusError:
		return HealthStatusError, nil
	case health.StatusUnknown:
		return HealthStatusUnknown, nil
	default:
		return "", fmt.Errorf("unknown health status: %s", status)
	}
}
