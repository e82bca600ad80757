package processor

import (
	"context"
	"errors"
	"time"

	"ventia-server/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

func (p *AuthProcessor) generateJWTToken(user store.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour) // Token valid for 24 hours
	cl := jwt.New(jwt.SigningMethodHS256)
	claims := cl.Claims.(jwt.MapClaims)
	claims["sub"] = user.ID.String()
	claims["iss"] = "ventia-server"
	claims["aud"] = "ventia-server"
	claims["exp"] = expirationTime.Unix()
	claims["iat"] = time.Now().Unix()

	token, err := cl.SignedString([]byte(p.jwtSecret))
	if err != nil {
		return "", err
	}
	return token, nil
}

func (p *AuthProcessor) ValidateJWTToken(ctx context.Context, tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidJWTToken
		}
		return []byte(p.jwtSecret), nil
	})
	if err != nil {
		p.logger.Error(ctx, "failed to parse jwt token", err)
		return nil, ErrInvalidJWTToken
	}
	if !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	return token.Claims, nil
}
