// Package credentials manages operator identities in the secure database's
// users collection. Passwords are bcrypt-hashed on the way in and only ever
// compared, never read back; list results carry no hash material.
package credentials

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/docpanel/docpanel/pkg/domain"
	"github.com/docpanel/docpanel/pkg/storage"
)

// BcryptCost is the bcrypt cost factor
const BcryptCost = 12

// DefaultRole is assigned when a credential is added without a role.
const DefaultRole = "user"

// Store manages the credential collection.
type Store struct {
	handle storage.Handle
	logger zerolog.Logger
}

// NewStore creates a credential store over the secure database. It declares
// a username index so verification does not scan the collection.
func NewStore(cluster *storage.Cluster, secureDB string, logger zerolog.Logger) (*Store, error) {
	handle := cluster.Collection(secureDB, domain.CredentialCollection)
	if err := handle.EnsureFieldIndex(domain.CredentialUsernameField); err != nil {
		return nil, fmt.Errorf("failed to prepare credential collection: %w", err)
	}
	return &Store{handle: handle, logger: logger}, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Bootstrap inserts one default admin credential if the collection is empty.
// Idempotent: an already-populated store is left untouched.
func (s *Store) Bootstrap(defaultUsername, defaultPassword string) error {
	if s.handle.Count() > 0 {
		return nil
	}

	hash, err := HashPassword(defaultPassword)
	if err != nil {
		return err
	}

	_, err = s.handle.Insert(domain.Document{
		domain.CredentialUsernameField: defaultUsername,
		domain.CredentialHashField:     hash,
		domain.CredentialRoleField:     "admin",
	})
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	s.logger.Info().Str("username", defaultUsername).Msg("created default admin user")
	return nil
}

// Verify checks a username/password pair. An unknown user and a wrong
// password both come back as a bare false; the caller cannot tell them apart.
func (s *Store) Verify(username, password string) bool {
	matches, err := s.handle.FindByField(domain.CredentialUsernameField, username)
	if err != nil || len(matches) == 0 {
		return false
	}

	hash, _ := matches[0][domain.CredentialHashField].(string)
	return CheckPassword(password, hash)
}

// List returns every credential without its password hash, in insertion
// order.
func (s *Store) List() []domain.CredentialInfo {
	docs, _, err := s.handle.FindPage(1, s.handle.Count()+1)
	if err != nil {
		return []domain.CredentialInfo{}
	}

	infos := make([]domain.CredentialInfo, 0, len(docs))
	for _, doc := range docs {
		username, _ := doc[domain.CredentialUsernameField].(string)
		role, _ := doc[domain.CredentialRoleField].(string)
		infos = append(infos, domain.CredentialInfo{
			ID:       doc.ID(),
			Username: username,
			Role:     role,
		})
	}
	return infos
}

// Add hashes the password and inserts a new credential, returning its id.
// Usernames are not required to be unique; duplicate entries are permitted
// and Verify matches the oldest one.
func (s *Store) Add(username, password, role string) (string, error) {
	if role == "" {
		role = DefaultRole
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	id, err := s.handle.Insert(domain.Document{
		domain.CredentialUsernameField: username,
		domain.CredentialHashField:     hash,
		domain.CredentialRoleField:     role,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add credential: %w", err)
	}

	s.logger.Info().Str("username", username).Str("role", role).Msg("credential added")
	return id.String(), nil
}

// Update changes a credential's username and role, and its password when a
// non-empty one is supplied. Returns false for a malformed or unknown id, or
// when nothing changed.
func (s *Store) Update(id, username, role, password string) bool {
	docID, ok := domain.ParseDocumentID(id)
	if !ok {
		return false
	}

	updates := domain.Document{
		domain.CredentialUsernameField: username,
		domain.CredentialRoleField:     role,
	}
	if password != "" {
		hash, err := HashPassword(password)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash replacement password")
			return false
		}
		updates[domain.CredentialHashField] = hash
	}

	changed, err := s.handle.UpdateByID(docID, updates)
	if err != nil || changed == 0 {
		return false
	}

	s.logger.Info().Str("id", id).Str("username", username).Msg("credential updated")
	return true
}

// Delete removes a credential. Returns false for a malformed or unknown id.
func (s *Store) Delete(id string) bool {
	docID, ok := domain.ParseDocumentID(id)
	if !ok {
		return false
	}

	if err := s.handle.DeleteByID(docID); err != nil {
		return false
	}

	s.logger.Info().Str("id", id).Msg("credential deleted")
	return true
}
