package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hivelog/hivelog-api/internal/api/shared"
	"github.com/hivelog/hivelog-api/internal/service/auth"
)

var (
	errNoAuthHeader  = errors.New("authorization header required")
	errBadAuthFormat = errors.New("invalid authorization format")
)

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user ID in the request context for downstream handlers.
func RequireAuth(jwtService auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Authentication required", err)
				return
			}

			claims, err := jwtService.ValidateToken(r.Context(), token)
			if err != nil {
				rejectToken(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadAuthFormat
	}
	return token, nil
}

func rejectToken(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Token expired", err)
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		// possible forgery; log above debug
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err,
			shared.WithElevatedLogLevel())
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
	}
}
