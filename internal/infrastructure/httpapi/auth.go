package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
)

// Claims are the access token claims the service accepts.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HMAC-signed access tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   string
}

// NewTokenService creates a token service for the given secret.
func NewTokenService(signingKey, issuer, audience string) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// Issue signs a token for subject holding roles.
func (s *TokenService) Issue(subject string, roles []string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	}
	if s.audience != "" {
		claims.Audience = []string{s.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Validate parses token and returns the principal it carries.
func (s *TokenService) Validate(token string) (dto.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dto.Principal{}, errors.New("token has expired")
		}
		return dto.Principal{}, errors.New("invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return dto.Principal{}, errors.New("invalid token claims")
	}
	return dto.Principal{Subject: claims.Subject, Roles: claims.Roles}, nil
}

// TokenValidator turns a bearer token into a principal.
type TokenValidator interface {
	Validate(token string) (dto.Principal, error)
}

type contextKeyPrincipal struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p dto.Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, p)
}

// PrincipalFrom returns the principal attached to ctx, or the anonymous
// principal.
func PrincipalFrom(ctx context.Context) dto.Principal {
	p, _ := ctx.Value(contextKeyPrincipal{}).(dto.Principal)
	return p
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// token's principal to the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", middleware.GetReqID(ctx))
				writeErrorBody(w, http.StatusUnauthorized, "unauthorized", "missing or invalid Authorization header", nil)
				return
			}

			principal, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", middleware.GetReqID(ctx))
				writeErrorBody(w, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

// LocalPrincipal attaches a fixed principal. It is used when authentication
// is disabled.
func LocalPrincipal(p dto.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
