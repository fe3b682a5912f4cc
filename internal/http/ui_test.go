package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/readonly"
)

func TestUIController_CatalogPage(t *testing.T) {
	env := newTestEnv(t)

	t.Run("lists every book without filters", func(t *testing.T) {
		w := env.get("/")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Showing 2 books")
		assert.Contains(t, body, "Dune")
		assert.Contains(t, body, "Herbert, Frank")
		assert.Contains(t, body, "The Hobbit")
		assert.Contains(t, body, "Desert planet")
	})

	t.Run("search with category All keeps the match", func(t *testing.T) {
		w := env.get("/?q=desert&category=")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Showing 1 book of 2")
		assert.Contains(t, body, `id="book-`+fmt.Sprint(env.dune)+`"`)
		assert.NotContains(t, body, "The Hobbit</h2>")
	})

	t.Run("search and category that exclude each other", func(t *testing.T) {
		w := env.get("/?q=desert&category=Fantasy")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Showing 0 books of 2")
		assert.Contains(t, body, "No books match these filters.")
	})

	t.Run("the All label from a bookmarked URL selects everything", func(t *testing.T) {
		w := env.get("/?q=desert&category=All")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Showing 1 book of 2")
	})

	t.Run("filter dropdowns offer All and the distinct values", func(t *testing.T) {
		w := env.get("/?owner=Bob")

		body := w.Body.String()
		assert.Contains(t, body, `<option value="">All</option>`)
		assert.Contains(t, body, `<option value="Bob" selected>Bob</option>`)
		assert.Contains(t, body, `<option value="Sci-Fi">Sci-Fi</option>`)
		assert.Contains(t, body, "Showing 1 book of 2")
	})
}

func TestUIController_CatalogPageRejectsOversizedFilter(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/?q=" + strings.Repeat("x", 201))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid filter")
}

func TestUIController_CatalogPageStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Close())

	w := env.get("/")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Could not load the catalog")
}

func TestUIController_NewBookPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/books/new")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<option value="Herbert, Frank">Herbert, Frank</option>`)
	assert.Contains(t, body, `<option value="French">French</option>`)
	assert.Contains(t, body, `<option value="Reading">Reading</option>`)
	assert.NotContains(t, body, "gorilla.csrf.Token")
}

func createForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"summary":  {"Sequel"},
		"category": {"Sci-Fi"},
		"author":   {"Herbert, Frank"},
		"language": {"English"},
		"owner":    {"Alice"},
		"status":   {"Unread"},
	}
}

func TestUIController_CreateBook(t *testing.T) {
	t.Run("redirects to the catalog and flashes", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postForm("/books", createForm("Dune Messiah"))

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Equal(t, int64(3), env.bookCount(t))

		page := env.get("/", w.Result().Cookies()...)
		body := page.Body.String()
		assert.Contains(t, body, "Book added: Dune Messiah")
		assert.Contains(t, body, "Showing 3 books")

		again := env.get("/", w.Result().Cookies()...)
		assert.NotContains(t, again.Body.String(), "Book added")
	})

	t.Run("empty title keeps the entered values", func(t *testing.T) {
		env := newTestEnv(t)
		form := createForm("")
		form.Set("summary", "Kept summary")

		w := env.postForm("/books", form)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "title is required")
		assert.Contains(t, body, "Kept summary")
		assert.Contains(t, body, `<option value="Herbert, Frank" selected>`)
		assert.Equal(t, int64(2), env.bookCount(t))
	})

	t.Run("unknown author is reported", func(t *testing.T) {
		env := newTestEnv(t)
		form := createForm("Ghost")
		form.Set("author", "Nobody, Really")

		w := env.postForm("/books", form)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "does not exist")
		assert.Equal(t, int64(2), env.bookCount(t))
	})

	t.Run("unchosen dropdown is a validation error", func(t *testing.T) {
		env := newTestEnv(t)
		form := createForm("Ghost")
		form.Del("owner")

		w := env.postForm("/books", form)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "please choose a value")
	})
}

func TestUIController_EditBookPage(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no selection shows only the selector", func(t *testing.T) {
		w := env.get("/books/edit")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `<option value="">Select a book</option>`)
		assert.Contains(t, body, ">The Hobbit</option>")
		assert.NotContains(t, body, "Save changes")
	})

	t.Run("selection pre-fills the form", func(t *testing.T) {
		w := env.get(fmt.Sprintf("/books/edit?id=%d", env.dune))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `value="Dune"`)
		assert.Contains(t, body, "Desert planet</textarea>")
		assert.Contains(t, body, `<option value="Herbert, Frank" selected>`)
		assert.Contains(t, body, "<option selected>English</option>")
		assert.Contains(t, body, "title, summary and author only")
		assert.Contains(t, body, fmt.Sprintf(`action="/books/%d"`, env.dune))
	})

	t.Run("unknown id", func(t *testing.T) {
		w := env.get("/books/edit?id=999")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Book not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		w := env.get("/books/edit?id=abc")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid book id")
	})
}

func TestUIController_UpdateBook(t *testing.T) {
	t.Run("overwrites title summary and author only", func(t *testing.T) {
		env := newTestEnv(t)
		form := url.Values{
			"title":    {"Dune (1965)"},
			"summary":  {"Arrakis"},
			"author":   {"Tolkien, J.R.R."},
			"language": {"French"},
		}

		w := env.postForm(fmt.Sprintf("/books/%d", env.dune), form)

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		row, err := env.store.GetBook(context.Background(), env.dune)
		require.NoError(t, err)
		assert.Equal(t, "Dune (1965)", row.Title)
		assert.Equal(t, "Arrakis", row.Summary)
		assert.Equal(t, "Tolkien, J.R.R.", *row.Author)
		assert.Equal(t, env.english, row.LanguageID)
		assert.Equal(t, "Sci-Fi", row.Category)

		page := env.get("/", w.Result().Cookies()...)
		assert.Contains(t, page.Body.String(), "Book updated: Dune (1965)")
	})

	t.Run("rejected edit keeps the submitted values", func(t *testing.T) {
		env := newTestEnv(t)
		form := url.Values{"title": {""}, "summary": {"Draft"}, "author": {"Herbert, Frank"}}

		w := env.postForm(fmt.Sprintf("/books/%d", env.dune), form)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "title is required")
		assert.Contains(t, body, "Draft</textarea>")

		row, err := env.store.GetBook(context.Background(), env.dune)
		require.NoError(t, err)
		assert.Equal(t, "Dune", row.Title)
	})

	t.Run("unknown book", func(t *testing.T) {
		env := newTestEnv(t)
		form := url.Values{"title": {"Ghost"}, "author": {"Herbert, Frank"}}

		w := env.postForm("/books/999", form)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.postForm("/books/abc", url.Values{"title": {"Ghost"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUIController_ReadOnly(t *testing.T) {
	env := newTestEnv(t, func(cfg *RouterConfig) {
		cfg.ReadOnly = readonly.NewMiddleware(true)
	})

	page := env.get("/")
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "The catalog is read-only.")
	assert.NotContains(t, page.Body.String(), `href="/books/new"`)

	w := env.postForm("/books", createForm("Blocked"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(2), env.bookCount(t))
}

func TestUIController_CSRF(t *testing.T) {
	env := newTestEnv(t, func(cfg *RouterConfig) {
		cfg.CSRFSecret = []byte("test-secret-key-32-bytes-long!!!")
	})

	page := env.get("/books/new")
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, `name="gorilla.csrf.Token"`)

	w := env.postForm("/books", createForm("Forged"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(2), env.bookCount(t))

	token := extractValue(t, body, `name="gorilla.csrf.Token" value="`)
	form := createForm("Signed")
	form.Set("gorilla.csrf.Token", token)
	w = env.postForm("/books", form, page.Result().Cookies()...)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, int64(3), env.bookCount(t))
}

func extractValue(t *testing.T, body, prefix string) string {
	t.Helper()
	start := strings.Index(body, prefix)
	require.NotEqual(t, -1, start, "missing %q", prefix)
	rest := body[start+len(prefix):]
	end := strings.Index(rest, `"`)
	require.NotEqual(t, -1, end)
	return rest[:end]
}
