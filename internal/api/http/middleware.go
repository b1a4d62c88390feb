package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"eventrent-backend/internal/config"
	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/security"
	"eventrent-backend/internal/service"
)

const (
	sessionCookie = "cart_session"
	sessionHeader = "X-Cart-Session"
	requestHeader = "X-Request-ID"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	sessionKey
)

// ClaimsFromContext returns the verified token claims of the caller, if any.
func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.Claims)
	return claims, ok
}

// SessionFromContext returns the cart session id of the caller.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogging tags the request with an id and logs its outcome.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestHeader, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(r.Context(), "Panic while serving request", "panic", p, "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// cors answers preflight requests and tags responses for browser callers.
func cors(allowedOrigins []string) mux.MiddlewareFunc {
	anyOrigin := slices.Contains(allowedOrigins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case anyOrigin:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Headers", "authorization, content-type, x-client-info, apikey, "+strings.ToLower(sessionHeader))
			w.Header().Set("Access-Control-Expose-Headers", sessionHeader+", "+requestHeader)

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// withSession resolves the cart session from the header or cookie, minting a
// new one for first-time visitors.
func withSession(ttl time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(sessionHeader)
			if id == "" {
				if c, err := r.Cookie(sessionCookie); err == nil {
					id = c.Value
				}
			}
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(sessionHeader, id)

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, id)))
		})
	}
}

// authenticator enforces the security level configured for the matched route.
// Admin tokens are re-authorized against the role store on every request, so a
// revoked role takes effect before the token expires.
type authenticator struct {
	tokens security.TokenManager
	auth   service.AuthService
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return h[7:]
	}
	return ""
}

func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.GetSecurityLevel(name)
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
			return
		}
		claims, err := a.tokens.ValidateToken(token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := checkSecurityLevel(level, claims); err != nil {
			writeError(w, r, err)
			return
		}
		if claims.Type != security.TokenTypeService {
			identity := &domain.Identity{UserID: claims.UserID, Email: claims.Email}
			if _, err := a.auth.Authorize(r.Context(), identity); err != nil {
				logger.WarnContext(r.Context(), "Admin token rejected", "userID", claims.UserID, "error", err)
				writeError(w, r, err)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func checkSecurityLevel(level config.SecurityLevel, claims *security.Claims) error {
	switch level {
	case config.SecurityService:
		if claims.Type != security.TokenTypeService && !claims.IsAdmin() {
			return security.ErrWrongTokenType
		}
	case config.SecurityAdmin:
		if !claims.IsAdmin() {
			return security.ErrWrongTokenType
		}
	}
	return nil
}
