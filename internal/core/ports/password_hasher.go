package ports

// PasswordHasher derives and checks password hashes. Verify must cost the
// same for any well-formed stored hash regardless of the candidate
// password, so callers can keep failure paths in one timing class.
type PasswordHasher interface {
	// Hash derives a self-describing hash of password with a fresh salt.
	Hash(password string) (string, error)
	// Verify reports whether password matches the stored hash. A hash
	// that fails to decode verifies as false.
	Verify(password, encoded string) bool
}
