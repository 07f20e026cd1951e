package casbinAuthorization

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin"
	"github.com/cristalhq/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/sendexa/Drush-Booking/domain"
)

func InitializeEnforcer(modelPath, policyPath string) (*casbin.Enforcer, error) {
	e, err := casbin.NewEnforcerSafe(modelPath, policyPath)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func hsVerifier() (jwt.Verifier, error) {
	return jwt.NewVerifierHS(jwt.HS256, []byte(os.Getenv("SECRET_KEY")))
}

func parseToken(tokenString string) (*jwt.Token, error) {
	verifier, err := hsVerifier()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse([]byte(tokenString), verifier)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	return token, nil
}

func extractClaims(token *jwt.Token) (*domain.Claims, error) {
	verifier, err := hsVerifier()
	if err != nil {
		return nil, err
	}

	var claims domain.Claims
	if err := jwt.ParseClaims(token.Bytes(), verifier, &claims); err != nil {
		return nil, err
	}

	return &claims, nil
}

// ExtractRole resolves the request to a role for enforcement. Requests
// without a bearer token are Unauthenticated; expired tokens are rejected.
func ExtractRole(r *http.Request) (string, string, error) {
	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		return "Unauthenticated", "", nil
	}

	bearerToken := strings.Split(bearer, "Bearer ")
	if len(bearerToken) != 2 {
		return "", "", errors.New("invalid token format")
	}

	tokenString := bearerToken[1]
	token, err := parseToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, err := extractClaims(token)
	if err != nil {
		return "", "", err
	}

	if time.Now().After(claims.ExpiresAt) {
		return "", "", errors.New("token expired")
	}

	return string(claims.Role), tokenString, nil
}

// CasbinMiddleware guards every route: signed-out tokens are rejected
// through the denylist, then (role, path, method) is enforced against the
// policy. Unauthenticated requests to protected routes never reach a
// handler.
func CasbinMiddleware(e *casbin.Enforcer, denylist domain.AuthCache, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userRole, token, err := ExtractRole(r)
			if err != nil {
				logger.Error("Unauthorized access attempt")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if token != "" {
				denied, err := denylist.IsTokenDenylisted(r.Context(), token)
				if err == nil && denied {
					logger.Error("Denylisted token used after sign-out")
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
			}

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				log.Println("enforce error:", err)
				logger.Error("Error enforcing authorization policy")
				http.Error(w, "unauthorized user", http.StatusUnauthorized)
				return
			}

			if !res {
				if userRole == "Unauthenticated" {
					logger.Warn("Unauthenticated request to protected route")
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				logger.Warn("Unauthorized access attempt: forbidden")
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
