package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

// Claims ride on both token kinds; Kind distinguishes them so a refresh
// token can never be presented as an access token or vice versa.
type Claims struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
	Kind        string `json:"kind"` // "access" or "refresh"
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access    string
	Refresh   string
	RefreshID string // JTI of the refresh token, tracked for rotation
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: AccessTTL, refreshTTL: RefreshTTL}
}

// NewIssuerWithTTL exists for tests that need already-expired tokens.
func NewIssuerWithTTL(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (i *Issuer) IssuePair(userID, email, role string, isSuperuser bool) (*TokenPair, error) {
	now := time.Now()
	jti := uuid.NewString()

	access, err := i.sign(Claims{
		Email: email, Role: role, IsSuperuser: isSuperuser, Kind: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	})
	if err != nil {
		return nil, err
	}

	refresh, err := i.sign(Claims{
		Email: email, Role: role, IsSuperuser: isSuperuser, Kind: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
		},
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh, RefreshID: jti}, nil
}

func (i *Issuer) sign(c Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// ParseAccess validates an access token and returns its claims.
func (i *Issuer) ParseAccess(token string) (*Claims, error) {
	return i.parse(token, "access")
}

// ParseRefresh validates a refresh token and returns its claims.
func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	return i.parse(token, "refresh")
}

func (i *Issuer) parse(tokenString, kind string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Kind != kind {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
