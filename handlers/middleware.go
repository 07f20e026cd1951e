package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/sendexa/Drush-Booking/authorization"
	"github.com/sendexa/Drush-Booking/domain"
)

func jsonResponse(object interface{}, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	resp, err := json.Marshal(object)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Write(resp)
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(rw, h)
	})
}

// ExtractTraceInfoMiddleware propagates trace context from incoming headers.
func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken strips the "Bearer " prefix from the Authorization header.
func bearerToken(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	return strings.TrimPrefix(bearer, "Bearer ")
}

// requestClaims resolves the caller's claims from the Authorization header.
// Routing already rejected unauthenticated requests for protected routes.
func requestClaims(r *http.Request) (*domain.Claims, error) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		return nil, fmt.Errorf("missing authorization header")
	}

	token := authorization.GetToken(tokenString)
	if token == nil {
		return nil, fmt.Errorf("malformed token")
	}

	return authorization.GetClaims(token.Bytes())
}
