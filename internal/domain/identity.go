package domain

// Identity is the verified, request-scoped representation of the caller,
// derived from a token. It is never persisted; it lives for one request.
type Identity struct {
	SubjectID string
	Email     string
	RoleCodes []string
}
