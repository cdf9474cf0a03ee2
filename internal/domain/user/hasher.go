package user

// PasswordHasher hashes and verifies user passwords. Implemented by the
// bcrypt hasher in infrastructure.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
