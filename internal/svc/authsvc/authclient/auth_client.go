package authclient

import (
	"context"

	"github.com/mkrupp/shopcase/internal/domain"
)

// AuthClient defines the interface for validating authentication tokens.
type AuthClient interface {
	// Validate checks if the given token is valid.
	// Returns the identity associated with the token, whether the token is
	// valid, and any error encountered during validation.
	Validate(ctx context.Context, token string) (domain.Identity, bool, error)
}
