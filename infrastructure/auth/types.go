package auth

type ClaimsData struct {
	Issuer    string
	UserID    string
	ExpiresAt int64
	IssuedAt  int64
}
