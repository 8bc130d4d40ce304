package rest

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pershin-daniil/followups/pkg/models"
)

type ctxClaimsType string

const ctxClaimsStr ctxClaimsType = "claims"

var ErrUnauthorised = errors.New("unauthorized")

// jwtAuth accepts RS256 bearer tokens and puts their claims into the request context.
func (s *Server) jwtAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.writeResponse(w, http.StatusUnauthorized, ErrUnauthorised)
			return
		}
		claims, err := parseToken(token, s.publicKey)
		if err != nil {
			s.log.Debugf("rejected token: %v", err)
			s.writeResponse(w, http.StatusUnauthorized, ErrUnauthorised)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), ctxClaimsStr, claims))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getClaims(ctx context.Context) *models.Claims {
	claims, ok := ctx.Value(ctxClaimsStr).(*models.Claims)
	if !ok {
		return nil
	}
	return claims
}

func parseToken(accessToken string, key *rsa.PublicKey) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("invalid signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("err parsing token: %w", err)
	}
	claims, ok := token.Claims.(*models.Claims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

// LoadPublicKey reads the PEM encoded RSA key tokens are verified with.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("err reading public key: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("err parsing public key: %w", err)
	}
	return key, nil
}
