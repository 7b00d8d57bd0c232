package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type Claims struct {
	Kind TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type session struct {
	userID  string
	expires time.Time
}

// ============================================================
// Token Issuer
// ============================================================

// TokenIssuer выдает HS256 пары access/refresh. Живые refresh сессии
// хранятся в памяти по jti, logout удаляет сессию.
type TokenIssuer struct {
	mu         sync.Mutex
	sessions   map[string]session // jti -> session
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		sessions:   make(map[string]session),
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (t *TokenIssuer) Issue(userID string) (TokenPair, error) {
	now := t.now()
	jti := uuid.NewString()

	refresh, err := t.sign(userID, jti, RefreshToken, now, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	access, err := t.sign(userID, uuid.NewString(), AccessToken, now, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune(now)
	t.sessions[jti] = session{userID: userID, expires: now.Add(t.refreshTTL)}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh выдает новый access по живому refresh токену.
func (t *TokenIssuer) Refresh(refresh string) (string, error) {
	claims, err := t.parse(refresh, RefreshToken)
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	s, ok := t.sessions[claims.ID]
	t.mu.Unlock()
	if !ok || s.userID != claims.Subject {
		return "", fmt.Errorf("%w: session revoked", ErrInvalidToken)
	}

	return t.sign(claims.Subject, uuid.NewString(), AccessToken, t.now(), t.accessTTL)
}

func (t *TokenIssuer) Revoke(refresh string) error {
	claims, err := t.parse(refresh, RefreshToken)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, claims.ID)
	return nil
}

// ParseAccess проверяет access токен и возвращает id пользователя.
func (t *TokenIssuer) ParseAccess(access string) (string, error) {
	claims, err := t.parse(access, AccessToken)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (t *TokenIssuer) sign(userID, jti string, kind TokenKind, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) parse(raw string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, kind)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return claims, nil
}

// prune вызывается под mu.
func (t *TokenIssuer) prune(now time.Time) {
	for jti, s := range t.sessions {
		if now.After(s.expires) {
			delete(t.sessions, jti)
		}
	}
}
