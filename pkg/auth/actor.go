package auth

import "context"

// Actor is the authenticated caller of an admin operation. ID is stamped
// into created_by and updated_by.
type Actor struct {
	ID   string
	Role string
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok && a.ID != ""
}
