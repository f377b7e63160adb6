package utils

import (
	"time"

	"sourcevia/pkg/permissions"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var jwtSecret = []byte("secret")

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// UserClaimsKey is the Fiber locals / context key for the decoded claims.
const UserClaimsKey = "user_claims"

// UserClaims carries the authenticated actor. Each user has exactly one
// role; reassignment invalidates outstanding tokens at their next refresh.
type UserClaims struct {
	UserID string           `json:"user_id"`
	Role   permissions.Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims to the explicit actor the core packages take.
func (c *UserClaims) Actor() permissions.Actor {
	return permissions.Actor{ID: c.UserID, Role: c.Role}
}

func GenerateToken(userID primitive.ObjectID, role permissions.Role) (string, error) {
	claims := UserClaims{
		UserID: userID.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}
