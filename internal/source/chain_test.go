package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name string
	rows []RawRow
	err  error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(context.Context) ([]RawRow, error) { return s.rows, s.err }

func TestChainFallsBack(t *testing.T) {
	want := []RawRow{{"DIVISION": "A"}}
	chain := Chain{
		stubSource{name: "primary", err: errors.New("boom")},
		stubSource{name: "secondary", rows: want},
		stubSource{name: "never", err: errors.New("unreached")},
	}

	rows, err := chain.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, rows)
}

func TestChainAllFail(t *testing.T) {
	chain := Chain{
		stubSource{name: "one", err: errors.New("first failure")},
		stubSource{name: "two", err: errors.New("second failure")},
	}
	_, err := chain.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first failure")
	assert.Contains(t, err.Error(), "second failure")
}

func TestChainEmpty(t *testing.T) {
	_, err := Chain{}.Fetch(context.Background())
	require.Error(t, err)
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	rows, err := HTTPSource{URL: srv.URL}.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0]["BRAND"])
}

func TestHTTPSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := HTTPSource{URL: srv.URL}.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
