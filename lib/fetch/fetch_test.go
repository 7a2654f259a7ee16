package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"railcodes/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/crs/crsa.shtm", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("user-agent") != "test-agent" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`<html><body><h1>CRS codes: A</h1></body></html>`))
	})
	mux.HandleFunc("/gone.shtm", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/broken.shtm", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseURL string, dumpDir string) *Client {
	client, err := NewClient(ClientOptions{
		BaseURL:   baseURL,
		UserAgent: "test-agent",
		DumpDir:   dumpDir,
	})
	require.NoError(t, err)
	return client
}

func TestDocument(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:lib/fetch")
	defer cleanup()

	server := newServer(t)
	dump := filepath.Join(t.TempDir(), "dump")
	client := newTestClient(t, server.URL+"/", dump)

	doc, err := client.Document(context.Background(), "crs/crsa.shtm")
	require.NoError(t, err)
	require.Equal(t, "CRS codes: A", doc.Find("h1").Text())

	entries, err := os.ReadDir(dump)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	contents, err := os.ReadFile(filepath.Join(dump, entries[0].Name()))
	require.NoError(t, err)
	require.Contains(t, string(contents), "CRS codes: A")
}

func TestStatusErrors(t *testing.T) {
	server := newServer(t)
	client := newTestClient(t, server.URL+"/", "")

	_, err := client.Get(context.Background(), "gone.shtm")
	require.Error(t, err)
	require.False(t, IsConnectivityError(err))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Status)

	_, err = client.Get(context.Background(), "broken.shtm")
	require.True(t, IsConnectivityError(err))
}

func TestUnreachable(t *testing.T) {
	server := newServer(t)
	url := server.URL + "/"
	server.Close()

	client := newTestClient(t, url, "")
	_, err := client.Get(context.Background(), "crs/crsa.shtm")
	require.True(t, IsConnectivityError(err))

	var connErr *ConnectivityError
	require.True(t, errors.As(err, &connErr))
	require.Equal(t, url+"crs/crsa.shtm", connErr.URL)
}

func TestResolve(t *testing.T) {
	client := newTestClient(t, "http://www.railwaycodes.org.uk/", "")
	require.Equal(t, "http://www.railwaycodes.org.uk/crs/crsa.shtm", client.Resolve("crs/crsa.shtm"))
	require.Equal(t, "http://www.railwaycodes.org.uk/elrs/elra.shtm", client.Resolve("/elrs/elra.shtm"))
	require.Equal(t, "https://example.com/x", client.Resolve("https://example.com/x"))
}
