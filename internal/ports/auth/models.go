package auth

// Claims representa la identidad extraída del token.
// UserID es el owner que escopa todas las operaciones del core:
// sin UserID no se ejecuta ninguna operación (los handlers cortan con 401).
type Claims struct {
	UserID string
	Email  string
}
