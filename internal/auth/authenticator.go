package auth

import "context"

// AdminSubject is the token subject of the event administrator.
const AdminSubject = "admin"

// RoleAdmin is the role that grants access to the admin procedures.
const RoleAdmin = "administrator"

// Identity is the result of a successful authentication.
type Identity struct {
	Subject string
	Role    string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping the admin credential check (generated password,
// external identity provider, etc.) without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the credential and returns the identity it belongs to.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, credential string) (Identity, error)
}
