package domain

// CredentialCollection is the collection inside the secure database that
// holds operator credentials. It can never be dropped.
const CredentialCollection = "users"

// Field names used inside the credential collection.
const (
	CredentialUsernameField = "username"
	CredentialHashField     = "password_hash"
	CredentialRoleField     = "role"
)

// Credential is an operator identity record as stored in the secure
// collection. The hash is a one-way bcrypt hash; plaintext passwords are
// never stored.
type Credential struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// CredentialInfo is the listable view of a credential. It deliberately has no
// room for the password hash.
type CredentialInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
