package auth

import "github.com/google/uuid"

// Authorize decides whether account may mutate a resource owned by ownerID.
// Owners may always act on their own records, admins on anyone's. Reads are
// never owner-restricted, so this only guards update/delete/confirm paths.
func Authorize(account *User, ownerID uuid.UUID) error {
	if account == nil {
		return ErrUnauthenticated
	}

	if account.ID == ownerID {
		return nil
	}

	if account.IsAdmin() {
		return nil
	}

	return ErrForbidden
}

// AuthorizeResource applies the ownership policy to any owned record.
func AuthorizeResource(account *User, resource OwnedResource) error {
	if resource == nil {
		return ErrForbidden
	}
	return Authorize(account, resource.OwnerID())
}

// AuthorizeAdmin admits only admin accounts, used for place confirmation.
func AuthorizeAdmin(account *User) error {
	if account == nil {
		return ErrUnauthenticated
	}

	if !account.IsAdmin() {
		return ErrForbidden
	}

	return nil
}
