package authorization

import (
	"log"
	"os"
	"time"

	"github.com/cristalhq/jwt/v4"

	"github.com/sendexa/Drush-Booking/domain"
)

var jwtKey = []byte(os.Getenv("SECRET_KEY"))

var verifier, _ = jwt.NewVerifierHS(jwt.HS256, jwtKey)

const TokenDuration = time.Minute * 60

func GetToken(tokenString string) *jwt.Token {
	token, err := jwt.Parse([]byte(tokenString), verifier)
	if err != nil {
		log.Println(err)
	}
	return token
}

func GetClaims(tokenBytes []byte) (*domain.Claims, error) {
	var claims domain.Claims

	err := jwt.ParseClaims(tokenBytes, verifier, &claims)
	if err != nil {
		log.Println(err)
		return nil, err
	}

	return &claims, nil
}

// GenerateJWT issues a session token for verified credentials.
func GenerateJWT(credentials *domain.Credentials) (string, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, jwtKey)
	if err != nil {
		return "", err
	}

	builder := jwt.NewBuilder(signer)

	claims := &domain.Claims{
		UserID:    credentials.ID.Hex(),
		Email:     credentials.Email,
		Role:      credentials.Role,
		ExpiresAt: time.Now().Add(TokenDuration),
	}

	token, err := builder.Build(claims)
	if err != nil {
		return "", err
	}

	return token.String(), nil
}
