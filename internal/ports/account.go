package ports

import "context"

// AccountPort updates the public profile of an account.
type AccountPort interface {
	// UpdateProfile sets the username and display name shown at the table.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
