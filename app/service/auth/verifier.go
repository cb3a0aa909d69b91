package auth

import (
	"errors"
	"fmt"

	"casebot/app/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/do"
)

var (
	// ErrMissingToken signals a message sent without an access token.
	ErrMissingToken = errors.New("auth: access token missing")
	// ErrTokenExpired signals a well-formed token past its expiry.
	ErrTokenExpired = errors.New("auth: access token expired")
)

// Claims is what the transport forwards to the dialogue as message metadata.
type Claims struct {
	UserID   string
	UserName string
}

type tokenClaims struct {
	Data struct {
		UserName string `json:"userName"`
	} `json:"data"`
	jwt.RegisteredClaims
}

// Verifier checks access tokens issued by the MyCase web application.
type Verifier struct {
	key    any
	method jwt.SigningMethod
}

func New(di *do.Injector) (*Verifier, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewVerifier(cfg.Channel.JWTKey, cfg.Channel.JWTMethod)
}

// NewVerifier accepts a shared secret for HMAC methods and a PEM public key for RSA and ECDSA.
func NewVerifier(key, method string) (*Verifier, error) {
	m := jwt.GetSigningMethod(method)
	if m == nil {
		return nil, fmt.Errorf("auth: unsupported signing method %q", method)
	}

	var (
		verifyKey any
		err       error
	)

	switch m.(type) {
	case *jwt.SigningMethodHMAC:
		verifyKey = []byte(key)
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		verifyKey, err = jwt.ParseRSAPublicKeyFromPEM([]byte(key))
	case *jwt.SigningMethodECDSA:
		verifyKey, err = jwt.ParseECPublicKeyFromPEM([]byte(key))
	default:
		return nil, fmt.Errorf("auth: unsupported signing method %q", method)
	}
	if err != nil {
		return nil, fmt.Errorf("auth: parse %s key: %w", method, err)
	}

	return &Verifier{
		key:    verifyKey,
		method: m,
	}, nil
}

// Verify validates token and extracts the user it was issued to.
func (v *Verifier) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrMissingToken
	}

	var claims tokenClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, jwt.WithValidMethods([]string{v.method.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, ErrTokenExpired
	}
	if err != nil {
		return Claims{}, fmt.Errorf("auth: parse token: %w", err)
	}

	if claims.Subject == "" {
		return Claims{}, errors.New("auth: token has no subject")
	}

	return Claims{
		UserID:   claims.Subject,
		UserName: claims.Data.UserName,
	}, nil
}
