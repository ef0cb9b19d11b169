package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// La empresa no viaja en el token: se resuelve desde el usuario en cada petición,
// así un cambio de empresa se aplica sin reemitir credenciales.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "user" | "admin" | "autonomo"
}

// Generate genera un token JWT firmado que incluye userID y role.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve userID y role.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (userID, role string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("claims inválidos")
	}
	userID = claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", "", fmt.Errorf("token sin sujeto")
	}
	return userID, claims.Role, nil
}

// Manager emite y verifica tokens con una configuración fija.
// Implementa ports.TokenIssuer y ports.TokenVerifier.
type Manager struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// NewManager construye el gestor de tokens.
func NewManager(secret, issuer string, expMinutes int) *Manager {
	return &Manager{Secret: secret, Issuer: issuer, ExpMinutes: expMinutes}
}

// Issue genera un token para el usuario.
func (m *Manager) Issue(userID, role string) (string, error) {
	return Generate(m.Secret, userID, role, m.Issuer, m.ExpMinutes)
}

// Verify valida el token y devuelve el id del usuario.
func (m *Manager) Verify(token string) (string, error) {
	userID, _, err := Parse(m.Secret, token)
	return userID, err
}
