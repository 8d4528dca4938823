package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"keepsakes/config/common"
)

const UserIDClaim = "user_id"

type JWT struct {
	config *common.Config
}

func NewJWT(config *common.Config) *JWT {
	return &JWT{config: config}
}

func (j *JWT) GenerateToken(userID string) (string, error) {
	secretKey := j.config.GetJwtConfig()
	appName := j.config.GetAppConfig()
	now := time.Now()

	claims := jwt.MapClaims{
		UserIDClaim: userID,
		"aud":       appName,
		"iss":       appName,
		"iat":       now.Unix(),
		"exp":       now.Add(j.config.GetJwtTTL()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(secretKey)
}

func (j *JWT) VerifyJwtToken(token string) (jwt.MapClaims, error) {
	secretKey := j.config.GetJwtConfig()

	tokenParse, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := tokenParse.Claims.(jwt.MapClaims); ok && tokenParse.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

func (j *JWT) GetUserIdFromToken(token string) (string, error) {
	claims, err := j.VerifyJwtToken(token)
	if err != nil {
		return "", err
	}
	return UserIDFromClaims(claims)
}

func UserIDFromClaims(claims jwt.MapClaims) (string, error) {
	userID, ok := claims[UserIDClaim].(string)
	if !ok || userID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}
