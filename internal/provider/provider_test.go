package provider

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

type upstream struct {
	n   string
	bad bool
}

func (u upstream) ToDomainType() (packages.Summary, error) {
	if u.bad {
		return packages.Summary{}, fmt.Errorf("missing name")
	}
	return packages.Summary{Name: u.n}, nil
}

func TestConvertAll(t *testing.T) {
	t.Parallel()

	out, err := ConvertAll[packages.Summary]([]upstream{{n: "a"}, {n: "b"}})
	require.NoError(t, err)
	require.Equal(t, []packages.Summary{{Name: "a"}, {Name: "b"}}, out)

	_, err = ConvertAll[packages.Summary]([]upstream{{n: "a"}, {bad: true}})
	require.Error(t, err)
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name      string
		value     string
		expected  string
		expectErr bool
	}{
		{name: "trailing slash removed", value: "https://mirror.example.com/", expected: "https://mirror.example.com"},
		{name: "path prefix kept", value: "http://127.0.0.1:8080/pypi", expected: "http://127.0.0.1:8080/pypi"},
		{name: "empty keeps default", value: "  ", expected: "https://default.example.com"},
		{name: "relative rejected", value: "pypi.org", expectErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, err := NewOptions("https://default.example.com", WithBaseURL(tt.value))
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, opts.BaseURL)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	status := &httpclient.StatusError{URL: "https://pypi.org/search/", StatusCode: 500}
	notFound := &httpclient.StatusError{URL: "https://registry.npmjs.org/nope", StatusCode: 404}
	decode := ParseError("https://crates.io/api/v1/crates/serde", "missing crate")
	unavailable := fmt.Errorf("%w: dial tcp: connection refused", errors.ErrUpstreamUnavailable)

	tc := []struct {
		name        string
		err         error
		expected    string
		expectedErr error
	}{
		{
			name:        "search status",
			err:         SearchError(packages.IndexPyPI, status),
			expected:    "failed to search PyPI - status code 500",
			expectedErr: errors.ErrUpstreamStatus,
		},
		{
			name:        "info not found",
			err:         InfoError(packages.IndexNpm, notFound),
			expected:    "failed to get package info from npm - status code 404",
			expectedErr: errors.ErrPackageNotFound,
		},
		{
			name:        "info parse",
			err:         InfoError(packages.IndexCrates, decode),
			expected:    "failed to parse crates.io package info: invalid response from https://crates.io/api/v1/crates/serde: missing crate",
			expectedErr: errors.ErrUpstreamParse,
		},
		{
			name:        "unavailable",
			err:         SearchError(packages.IndexNpm, unavailable),
			expected:    "failed to search npm: upstream unavailable: dial tcp: connection refused",
			expectedErr: errors.ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.EqualError(t, tt.err, tt.expected)
			require.ErrorIs(t, tt.err, tt.expectedErr)
		})
	}

	require.NoError(t, Wrap(nil, "search", "results"))
}

func TestObjectKeys(t *testing.T) {
	t.Parallel()

	keys, err := ObjectKeys([]byte(`null`))
	require.NoError(t, err)
	require.Nil(t, keys)

	keys, err = ObjectKeys([]byte(`{}`))
	require.NoError(t, err)
	require.Empty(t, keys)

	keys, err = ObjectKeys([]byte(`{"b": [], "a": [{"x": 1}], "c": null}`))
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a", "c"}, keys)

	_, err = ObjectKeys([]byte(`[]`))
	require.Error(t, err)
}
