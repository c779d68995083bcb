package service

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"formflow/internal/config"
	"formflow/internal/model"
)

type account struct {
	userID   string
	password string
	tenantID string
	role     model.Role
}

// AuthService handles tenant user authentication
type AuthService struct {
	accounts  map[string]account
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new auth service from the configured accounts.
// User IDs are derived from tenant and username so they survive restarts.
func NewAuthService(cfg *config.Config) *AuthService {
	accounts := make(map[string]account, len(cfg.Users))
	for _, u := range cfg.Users {
		accounts[u.Username] = account{
			userID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(u.TenantID+"/"+u.Username)).String(),
			password: u.Password,
			tenantID: u.TenantID,
			role:     model.Role(u.Role),
		}
	}
	return &AuthService{
		accounts:  accounts,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		now:       time.Now,
	}
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	acct, ok := s.accounts[username]
	if !ok || !checkPassword(acct.password, password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := &model.UserClaims{
		UserID:   acct.userID,
		TenantID: acct.tenantID,
		Role:     acct.role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &model.LoginResponse{
		Token:    tokenString,
		UserID:   acct.userID,
		TenantID: acct.tenantID,
		Role:     acct.role,
	}, nil
}

// ValidateToken validates a user JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid || claims.TenantID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func checkPassword(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
