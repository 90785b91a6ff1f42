package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cayden0207/ctg-talents/internal/domain"
)

type Claims struct {
	UserID int64       `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	JvID   int64       `json:"jv_id,omitempty"`
	jwt.RegisteredClaims
}

func Sign(key []byte, u *domain.User, ttl time.Duration) (string, error) {
	var jvID int64
	if u.JvID != nil {
		jvID = *u.JvID
	}
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		JvID:   jvID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Parse validates the token and returns the actor it stands for.
func Parse(key []byte, token string) (domain.Actor, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return domain.Actor{}, err
	}
	if !parsed.Valid {
		return domain.Actor{}, errors.New("invalid token")
	}
	return domain.Actor{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		JvID:   claims.JvID,
	}, nil
}
