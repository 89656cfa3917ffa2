package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"autopartes/internal/auth"
	"autopartes/internal/config"
	"autopartes/internal/model"
	"autopartes/internal/session"

	"github.com/rs/zerolog"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	sessionKey   contextKey = "session"
	userKey      contextKey = "user"
)

// Principal is the authenticated caller.
type Principal struct {
	UID   string
	Email string
	Role  model.Role
}

// IsAdmin reports whether the caller carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == model.RoleAdmin
}

// PrincipalFrom returns the caller resolved by Authenticate.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// SessionFrom returns the cookie session loaded by Authenticate, if any.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok && s != nil
}

// UserFrom returns the profile loaded by RequireWholesale.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// WithUser stores the caller's profile on ctx.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserLoader loads the profile of the caller.
type UserLoader interface {
	GetByUID(ctx context.Context, uid string) (*model.User, error)
}

// WholesaleLinker links an approved wholesale request to a signed-in account.
type WholesaleLinker interface {
	AutoLink(ctx context.Context, uid, email string) (bool, error)
}

// Auth resolves the caller from the session cookie or a bearer token and
// guards routes by role.
type Auth struct {
	sessions session.Store
	tokens   *auth.TokenManager
	users    UserLoader
	linker   WholesaleLinker
	cookie   config.SessionConfig
	logger   zerolog.Logger
}

// NewAuth creates the auth middleware set. linker may be nil.
func NewAuth(sessions session.Store, tokens *auth.TokenManager, users UserLoader, linker WholesaleLinker, cookie config.SessionConfig, logger zerolog.Logger) *Auth {
	return &Auth{
		sessions: sessions,
		tokens:   tokens,
		users:    users,
		linker:   linker,
		cookie:   cookie,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Authenticate attaches the principal and the cookie session to the request
// context. A bearer token wins over the cookie; an invalid token is rejected.
// Requests without credentials pass through anonymously.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if header := r.Header.Get("Authorization"); header != "" {
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
				return
			}
			claims, err := a.tokens.Verify(raw)
			if err != nil {
				a.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
				return
			}
			ctx = WithPrincipal(ctx, &Principal{UID: claims.Subject, Email: claims.Email, Role: claims.Role})
		}

		if c, err := r.Cookie(a.cookie.CookieName); err == nil && c.Value != "" {
			sess, err := a.sessions.Get(ctx, c.Value)
			switch {
			case err == nil:
				ctx = context.WithValue(ctx, sessionKey, sess)
				if _, ok := PrincipalFrom(ctx); !ok && sess.Authenticated() {
					ctx = WithPrincipal(ctx, &Principal{UID: sess.UserID, Email: sess.Email, Role: sess.Role})
				}
			case errors.Is(err, session.ErrNotFound):
				a.logger.Debug().Str("path", r.URL.Path).Msg("stale session cookie")
			default:
				a.logger.Error().Err(err).Msg("failed to load session")
				writeError(w, http.StatusInternalServerError,
					model.NewDomainError(model.ErrCodeInternalError, "No se pudo cargar la sesión"))
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous callers.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers without the admin role.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
			return
		}
		if !p.IsAdmin() {
			a.logger.Warn().Str("uid", p.UID).Str("path", r.URL.Path).Msg("admin route denied")
			writeError(w, http.StatusForbidden, model.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireWholesale loads the caller's profile and rejects accounts that are
// not validated wholesale customers. The profile is read on every request so
// an approval takes effect without signing in again.
func (a *Auth) RequireWholesale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
			return
		}

		user, err := a.users.GetByUID(r.Context(), p.UID)
		if err != nil {
			a.logger.Error().Err(err).Str("uid", p.UID).Msg("failed to load profile")
			writeError(w, http.StatusInternalServerError,
				model.NewDomainError(model.ErrCodeInternalError, "No se pudo cargar el perfil"))
			return
		}
		if user == nil {
			writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
			return
		}
		if !user.IsWholesaleValidated() {
			user = a.link(r.Context(), p, user)
		}
		if !user.IsWholesaleValidated() {
			writeError(w, http.StatusForbidden, model.ErrWholesaleNotValidated)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// link runs auto-link for a caller whose request may have been approved since
// sign-in and returns the reloaded profile. Failures keep the old profile.
func (a *Auth) link(ctx context.Context, p *Principal, user *model.User) *model.User {
	if a.linker == nil || p.Email == "" {
		return user
	}

	linked, err := a.linker.AutoLink(ctx, p.UID, p.Email)
	if err != nil {
		a.logger.Warn().Err(err).Str("uid", p.UID).Msg("wholesale auto-link failed")
		return user
	}
	if !linked {
		return user
	}

	fresh, err := a.users.GetByUID(ctx, p.UID)
	if err != nil || fresh == nil {
		a.logger.Warn().Err(err).Str("uid", p.UID).Msg("failed to reload linked profile")
		return user
	}
	return fresh
}

// Session returns the caller's cookie session, creating one and setting the
// cookie when the request carries none.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if sess, ok := SessionFrom(r.Context()); ok {
		return sess, nil
	}

	sess, err := a.sessions.New(r.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to create session")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	a.setCookie(w, sess.ID)
	return sess, nil
}

// SignIn binds the caller to user on a new session id, carrying over the
// retail cart, and sets the cookie.
func (a *Auth) SignIn(w http.ResponseWriter, r *http.Request, user *model.User) error {
	fresh, err := a.rotate(r.Context())
	if err != nil {
		return err
	}

	fresh.SignIn(user.UID, user.Email, user.Rol)
	if err := a.sessions.Save(r.Context(), fresh); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	a.setCookie(w, fresh.ID)
	return nil
}

// SignOut moves the retail cart to a new anonymous session and sets the
// cookie. The signed-in session id stops working.
func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) error {
	if _, ok := SessionFrom(r.Context()); !ok {
		return nil
	}

	fresh, err := a.rotate(r.Context())
	if err != nil {
		return err
	}
	if err := a.sessions.Save(r.Context(), fresh); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	a.setCookie(w, fresh.ID)
	return nil
}

// rotate creates a new session holding the current session's cart and
// deletes the current one.
func (a *Auth) rotate(ctx context.Context) (*session.Session, error) {
	fresh, err := a.sessions.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if old, ok := SessionFrom(ctx); ok {
		fresh.Cart = old.Cart
		if err := a.sessions.Delete(ctx, old.ID); err != nil {
			a.logger.Warn().Err(err).Str("session_id", old.ID).Msg("failed to delete previous session")
		}
	}
	return fresh, nil
}

func (a *Auth) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookie.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(a.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
