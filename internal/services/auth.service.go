package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fileweb/internal/logging"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenIssuer        = "fileweb-server"
	defaultTokenExpiry = 90 * 24 * time.Hour
	minSecretLength    = 32
	secretKeyFileName  = ".fileweb-secret-key"
)

// ErrInvalidToken is returned for tokens that parse but fail validation
var ErrInvalidToken = errors.New("invalid token")

// AuthService manages JWT token generation and validation
type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
	logger      *logging.Logger
}

// CustomClaims represents the JWT claims structure
type CustomClaims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

// AuthOptions configures NewAuthService
type AuthOptions struct {
	Secret      string
	KeyFile     string // Where a generated secret is persisted; defaults to the home directory
	TokenExpiry time.Duration
	Logger      *logging.Logger
}

// NewAuthService creates the authentication service. Without an explicit
// secret one is loaded from, or generated into, the key file so tokens
// survive restarts.
func NewAuthService(opts AuthOptions) (*AuthService, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	secretKey := strings.TrimSpace(opts.Secret)
	if secretKey == "" {
		keyFile := opts.KeyFile
		if keyFile == "" {
			keyFile = defaultKeyFile()
		}
		var err error
		secretKey, err = loadOrCreateSecret(keyFile, logger)
		if err != nil {
			return nil, err
		}
	}

	// Ensure secret key is at least 32 bytes for HMAC-SHA256
	if len(secretKey) < minSecretLength {
		return nil, fmt.Errorf("secret key is %d bytes, need at least %d", len(secretKey), minSecretLength)
	}

	expiry := opts.TokenExpiry
	if expiry == 0 {
		expiry = defaultTokenExpiry
	}

	return &AuthService{
		secretKey:   secretKey,
		tokenExpiry: expiry,
		logger:      logger,
	}, nil
}

func defaultKeyFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return filepath.Join(os.TempDir(), secretKeyFileName)
	}
	return filepath.Join(homeDir, secretKeyFileName)
}

func loadOrCreateSecret(keyFile string, logger *logging.Logger) (string, error) {
	if data, err := os.ReadFile(keyFile); err == nil && len(strings.TrimSpace(string(data))) > 0 {
		logger.Info("Loaded persisted secret key", zap.String("file", keyFile))
		return strings.TrimSpace(string(data)), nil
	}

	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	secretKey := hex.EncodeToString(randomBytes)

	if err := os.WriteFile(keyFile, []byte(secretKey), 0o600); err != nil {
		logger.Warn("Could not persist secret key", zap.String("file", keyFile), zap.Error(err))
	} else {
		logger.Info("Generated and persisted secret key", zap.String("file", keyFile))
	}
	return secretKey, nil
}

// GenerateToken creates a new JWT token for a named client
func (a *AuthService) GenerateToken(clientName string) (string, error) {
	now := time.Now()

	claims := CustomClaims{
		ClientName: clientName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secretKey))
}

// ValidateToken verifies and parses a JWT token
func (a *AuthService) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.secretKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TokenExpiry returns the lifetime of newly issued tokens
func (a *AuthService) TokenExpiry() time.Duration {
	return a.tokenExpiry
}
