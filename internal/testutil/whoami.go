package testutil

import (
	"context"

	"github.com/lucid-sh/console/internal/api"
	"github.com/lucid-sh/console/internal/authgate"
)

// WhoamiClient adapts the API client's user profile to the auth gate's
// user type so the client satisfies authgate.Whoami in tests.
type WhoamiClient struct {
	Client *api.Client
}

func (w WhoamiClient) Whoami(ctx context.Context) (authgate.User, error) {
	user, err := w.Client.Whoami(ctx)
	if err != nil {
		return authgate.User{}, err
	}
	return authgate.User{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}, nil
}
