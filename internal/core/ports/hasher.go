package ports

// PasswordHasher abstracts the verified password hashing algorithm. Matches
// performs its own constant-time comparison; callers add no timing-sensitive
// logic of their own.
type PasswordHasher interface {
	Matches(plain, hash string) bool
	Encode(plain string) (string, error)
}
