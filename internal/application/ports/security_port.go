package ports

// PasswordHasher abstrae el algoritmo de hash de contraseñas.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, digest string) bool
}

// TokenIssuer emite credenciales bearer para un usuario.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// TokenVerifier valida una credencial bearer y devuelve el id del sujeto.
// Debe fallar si el token está mal formado, expirado o firmado con otra clave.
type TokenVerifier interface {
	Verify(token string) (subjectID string, err error)
}
