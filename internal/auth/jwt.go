package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal is the authenticated identity a verified token resolves to.
type Principal struct {
	UserID   primitive.ObjectID
	Username string
}

type JWTService struct {
	secretKey []byte
	expiry    time.Duration
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{secretKey: []byte(secret), expiry: expiry}
}

func (j *JWTService) GenerateToken(p Principal) (string, error) {
	claims := jwt.MapClaims{
		"sub":      p.UserID.Hex(),
		"username": p.Username,
		"exp":      time.Now().Add(j.expiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

func (j *JWTService) ValidateToken(tokenStr string) (Principal, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secretKey, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return Principal{}, errors.New("invalid subject")
	}
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return Principal{}, errors.New("invalid subject")
	}
	username, _ := claims["username"].(string)

	return Principal{UserID: userID, Username: username}, nil
}
