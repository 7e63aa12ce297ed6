package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"workload-node/internal/config"
)

var (
	ErrInvalidToken      = errors.New("недействительный токен")
	ErrExpiredToken      = errors.New("истекший токен")
	ErrMissingAuthHeader = errors.New("отсутствует заголовок Authorization")
	ErrInvalidAuthHeader = errors.New("недействительный формат заголовка Authorization")
	ErrMissingSecret     = errors.New("NODE_SECRET не задан")
)

const (
	issuer     = "workload-node"
	keyInfo    = "workload-node/jwt-hs256"
	keyLength  = 32
	defaultTTL = time.Hour
)

// Claims представляет собой утверждения JWT узла
type Claims struct {
	NodeID string `json:"node_id"`
	jwt.RegisteredClaims
}

// signingKey выводит ключ HS256 из общего секрета узлов
func signingKey() ([]byte, error) {
	if config.AppConfig == nil || config.AppConfig.NodeSecret == "" {
		return nil, ErrMissingSecret
	}

	key := make([]byte, keyLength)
	r := hkdf.New(sha256.New, []byte(config.AppConfig.NodeSecret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	return key, nil
}

// GenerateToken создает JWT токен для узла
func GenerateToken(nodeID string) (string, error) {
	key, err := signingKey()
	if err != nil {
		return "", err
	}

	ttl := config.AppConfig.TokenTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := time.Now()

	claims := &Claims{
		NodeID: nodeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   nodeID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ValidateToken проверяет токен и возвращает утверждения, если токен действителен
func ValidateToken(tokenString string) (*Claims, error) {
	key, err := signingKey()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.NodeID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractTokenFromHeader извлекает токен из заголовка Authorization
func ExtractTokenFromHeader(r *http.Request) (string, error) {
	return parseBearer(r.Header.Get("Authorization"))
}

// authenticate проверяет значение заголовка "Bearer <token>" целиком
func authenticate(authHeader string) (*Claims, error) {
	tokenString, err := parseBearer(authHeader)
	if err != nil {
		return nil, err
	}
	return ValidateToken(tokenString)
}

func parseBearer(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidAuthHeader
	}

	return parts[1], nil
}
