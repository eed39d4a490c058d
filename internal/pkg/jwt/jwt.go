package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Identity is the authenticated caller extracted from token claims.
// It is passed explicitly into services; nothing reads it from globals.
type Identity struct {
	TechnicianID string
	Role         string
}

type Service interface {
	// GenerateAccessToken issues a technician access token.
	GenerateAccessToken(technicianID string, role string) (token string, expiresAt int64, err error)

	// GenerateSSEToken issues a short-lived token for SSE connections.
	GenerateSSEToken(technicianID string) (token string, expiresIn int, err error)

	// ValidateSSEToken validates an SSE token and returns the technician ID.
	ValidateSSEToken(tokenString string) (technicianID string, err error)

	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey        string
	accessExpiration string
	tokenAuth        *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessExpiration string) Service {
	return &JWTService{
		secretKey:        secretKey,
		accessExpiration: accessExpiration,
		tokenAuth:        jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(technicianID string, role string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessExpiration)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"technician_id": technicianID,
		"role":          role,
		"type":          "access",
		"exp":           expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken issues a token valid for 5 minutes, long enough to
// open the stream.
func (j *JWTService) GenerateSSEToken(technicianID string) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"technician_id": technicianID,
		"type":          "sse",
		"exp":           expiresAt,
	})
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresIn, nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (technicianID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "sse" {
		return "", jwt.ErrInvalidJWT()
	}

	idVal, ok := token.Get("technician_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	technicianID, ok = idVal.(string)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	return technicianID, nil
}

// IdentityFromClaims builds an Identity from verified token claims.
func IdentityFromClaims(claims map[string]interface{}) (Identity, bool) {
	id, ok := claims["technician_id"].(string)
	if !ok || id == "" {
		return Identity{}, false
	}
	role, _ := claims["role"].(string)
	return Identity{TechnicianID: id, Role: role}, true
}
