package adapter

import "context"

// AuthAdapter supplies the bearer token for API calls and the identity used
// to seed the opaque chat session token. The Beacon subsystem reads only the
// user ID and never inspects auth state beyond that.
type AuthAdapter interface {
	Token(ctx context.Context) (string, error)
	UserID(ctx context.Context) (string, error)
}
