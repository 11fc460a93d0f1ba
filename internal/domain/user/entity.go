package user

// User represents a persisted user record.
type User struct {
	ID             int64  // ID is assigned by the storage backend and never reused
	Name           string // Name is the full name of the user
	Email          string // Email is the unique email address of the user
	CredentialHash string `json:"-"` // CredentialHash is the one-way hash of the user's password
}
