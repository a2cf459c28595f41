package web_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/models"
	"github.com/UnknownOlympus/iris/internal/services/directory"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/UnknownOlympus/iris/internal/vcard"
	"github.com/UnknownOlympus/iris/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://cards.selco.in/"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// silentRemote never delivers a snapshot, so the directory stays loading.
type silentRemote struct{}

func (silentRemote) Set(context.Context, string, []byte) error { return nil }

func (silentRemote) Subscribe(context.Context, string, func(store.Snapshot)) (store.Unsubscribe, error) {
	return func() {}, nil
}

type app struct {
	router  *gin.Engine
	dir     *directory.Directory
	handler *web.Handler
}

func newApp(t *testing.T, remote store.Remote) app {
	t.Helper()

	m := metrics.NewMetrics(prometheus.NewRegistry())
	handle, err := store.Open(t.Context(), sl.Discard(), remote, "employees", models.SeedEmployees(), m)
	require.NoError(t, err)
	t.Cleanup(handle.Close)

	dir := directory.NewDirectory(sl.Discard(), handle, m)
	t.Cleanup(dir.Close)

	handler := web.NewHandler(sl.Discard(), dir, vcard.NewEncoder("SELCO India"), baseURL)
	t.Cleanup(handler.Shutdown)

	return app{router: web.NewRouter(sl.Discard(), handler), dir: dir, handler: handler}
}

func (a app) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	return rec
}

func (a app) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (a app) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return a.do(t, req)
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	return doc
}

// notice returns the notice and level carried by an admin redirect.
func notice(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()

	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/admin", location.Path)

	return location.Query().Get("notice"), location.Query().Get("level")
}
