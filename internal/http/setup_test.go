package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/metrics"
	"github.com/mrlokans/bookcatalog/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *database.Database
	store  *database.CatalogStore
	router *gin.Engine

	dune, hobbit uint
	herbert      uint
	english      uint
}

// newTestEnv builds the full router over a fresh catalog holding Dune and
// The Hobbit. Options adjust the RouterConfig before the router is built.
func newTestEnv(t *testing.T, opts ...func(*RouterConfig)) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{db: db, store: db.CatalogStore()}
	env.seed(t)

	log, _ := test.NewNullLogger()
	collector := metrics.NewCollector()
	auditService := audit.NewService(auditRepo.NewRepository(db.DB), log)
	svc := catalog.NewService(env.store,
		catalog.WithRecorders(auditService, collector),
		catalog.WithLogger(log),
	)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessions, err := session.NewManager(sqlDB, config.Session{Lifetime: time.Hour})
	require.NoError(t, err)

	cfg := RouterConfig{
		Catalog:       svc,
		Database:      db,
		Audit:         auditService,
		Sessions:      sessions,
		Metrics:       collector,
		TemplatesPath: "../../templates",
		StaticPath:    "../../static",
		Title:         "Test Catalog",
		Version:       "test",
		Log:           log,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	env.router = NewRouter(cfg)
	return env
}

func (env *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	lookups := env.store.Lookups

	herbert, err := lookups.EnsureAuthor(ctx, "Frank", "Herbert")
	require.NoError(t, err)
	tolkien, err := lookups.EnsureAuthor(ctx, "J.R.R.", "Tolkien")
	require.NoError(t, err)
	english, err := lookups.EnsureLabel(ctx, catalog.LookupLanguage, "English")
	require.NoError(t, err)
	_, err = lookups.EnsureLabel(ctx, catalog.LookupLanguage, "French")
	require.NoError(t, err)
	alice, err := lookups.EnsureLabel(ctx, catalog.LookupOwner, "Alice")
	require.NoError(t, err)
	bob, err := lookups.EnsureLabel(ctx, catalog.LookupOwner, "Bob")
	require.NoError(t, err)
	read, err := lookups.EnsureLabel(ctx, catalog.LookupStatus, "Read")
	require.NoError(t, err)
	unread, err := lookups.EnsureLabel(ctx, catalog.LookupStatus, "Unread")
	require.NoError(t, err)

	env.dune, err = env.store.CreateBook(ctx, catalog.BookFields{
		Title: "Dune", Summary: "Desert planet", Category: "Sci-Fi",
		AuthorID: herbert, LanguageID: english, OwnerID: alice, StatusID: read,
	})
	require.NoError(t, err)
	env.hobbit, err = env.store.CreateBook(ctx, catalog.BookFields{
		Title: "The Hobbit", Summary: "There and back again", Category: "Fantasy",
		AuthorID: tolkien, LanguageID: english, OwnerID: bob, StatusID: unread,
	})
	require.NoError(t, err)

	env.herbert = herbert
	env.english = english
}

func (env *testEnv) do(method, path string, body io.Reader, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return env.do(http.MethodGet, path, nil, nil, cookies...)
}

func (env *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	header := http.Header{"Content-Type": {"application/x-www-form-urlencoded"}}
	return env.do(http.MethodPost, path, strings.NewReader(form.Encode()), header, cookies...)
}

func (env *testEnv) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	header := http.Header{"Content-Type": {"application/json"}}
	return env.do(method, path, strings.NewReader(body), header)
}

func (env *testEnv) bookCount(t *testing.T) int64 {
	t.Helper()
	count, err := env.store.Books.Count(context.Background())
	require.NoError(t, err)
	return count
}
