package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"schedule-arranger-go/internal/config"
	"schedule-arranger-go/pkg/logger"
)

// User is the identity attached to every authenticated request. It comes
// from the external identity provider, never from this service.
type User struct {
	ID       int64
	Username string
}

// UserSaver refreshes the local user row from the provider profile so
// usernames shown in attendance tables stay current.
type UserSaver interface {
	UpsertUser(ctx context.Context, userID int64, username string) error
}

// IdentityAuth resolves bearer tokens against the identity provider's
// profile endpoint and injects the resulting User into the request context.
type IdentityAuth struct {
	providerURL string
	client      *http.Client
	users       UserSaver
	skipAuth    bool
	mockUser    User
	log         logger.Logger
}

type contextKey int

const userKey contextKey = iota

type profileResponse struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Username string `json:"username"`
}

func NewIdentityAuth(cfg config.AuthConfig, users UserSaver, log logger.Logger) *IdentityAuth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &IdentityAuth{
		providerURL: strings.TrimRight(cfg.ProviderURL, "/"),
		client:      &http.Client{Timeout: timeout},
		users:       users,
		skipAuth:    cfg.SkipAuth,
		mockUser: User{
			ID:       cfg.MockUserID,
			Username: strings.TrimSpace(cfg.MockUsername),
		},
		log: log,
	}
}

func (a *IdentityAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == 0 || a.mockUser.Username == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user not configured")
				return
			}
			a.admit(w, r, next, a.mockUser)
			return
		}

		if a.providerURL == "" {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.providerURL+"/user", nil)
		if err != nil {
			unauthorized(w)
			return
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := a.client.Do(req)
		if err != nil {
			unauthorized(w)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			unauthorized(w)
			return
		}

		var profile profileResponse
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			unauthorized(w)
			return
		}

		username := profile.Login
		if username == "" {
			username = profile.Username
		}
		if profile.ID == 0 || username == "" {
			unauthorized(w)
			return
		}

		a.admit(w, r, next, User{ID: profile.ID, Username: username})
	})
}

func (a *IdentityAuth) admit(w http.ResponseWriter, r *http.Request, next http.Handler, user User) {
	if a.users != nil {
		if err := a.users.UpsertUser(r.Context(), user.ID, user.Username); err != nil {
			a.log.InternalError("auth: upsert user failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
	}
	next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == 0 {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
