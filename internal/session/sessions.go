package session

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookcatalog/internal/config"
)

// Session data keys
const (
	keyFlashKind    = "flash_kind"
	keyFlashMessage = "flash_message"
)

// Flash kinds understood by the layout template.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// Manager wraps scs.SessionManager with flash message helpers.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager backed by the catalog
// database. The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.Lifetime

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode // flash must survive the 303 after a form post
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// PutFlash stores a message for the next page render.
func (m *Manager) PutFlash(ctx context.Context, kind, message string) {
	m.Put(ctx, keyFlashKind, kind)
	m.Put(ctx, keyFlashMessage, message)
}

// PopFlash returns and clears the pending flash message, if any.
func (m *Manager) PopFlash(ctx context.Context) (Flash, bool) {
	message := m.PopString(ctx, keyFlashMessage)
	kind := m.PopString(ctx, keyFlashKind)
	if message == "" {
		return Flash{}, false
	}
	if kind == "" {
		kind = FlashSuccess
	}
	return Flash{Kind: kind, Message: message}, true
}
