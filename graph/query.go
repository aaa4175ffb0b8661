package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
)

func (r *Resolver) Me(ctx context.Context) *UserResolver {
	user := r.users.Me(r.execContext(ctx))
	if user == nil {
		return nil
	}
	return r.userResolver(user)
}

func (r *Resolver) TotalPhotos(ctx context.Context) (int32, error) {
	n, err := r.photos.TotalPhotos(ctx, r.execContext(ctx))
	if err != nil {
		return 0, r.graphError(err)
	}
	return int32(n), nil
}

func (r *Resolver) AllPhotos(ctx context.Context) ([]*PhotoResolver, error) {
	photos, err := r.photos.AllPhotos(ctx, r.execContext(ctx))
	if err != nil {
		return nil, r.graphError(err)
	}
	return r.photoResolvers(photos), nil
}

func (r *Resolver) Photo(ctx context.Context, args struct{ ID graphql.ID }) (*PhotoResolver, error) {
	photo, err := r.photos.Photo(ctx, r.execContext(ctx), string(args.ID))
	if err != nil {
		return nil, r.graphError(err)
	}
	return r.photoResolver(photo), nil
}

func (r *Resolver) TotalUsers(ctx context.Context) (int32, error) {
	n, err := r.users.TotalUsers(ctx, r.execContext(ctx))
	if err != nil {
		return 0, r.graphError(err)
	}
	return int32(n), nil
}

func (r *Resolver) AllUsers(ctx context.Context) ([]*UserResolver, error) {
	users, err := r.users.AllUsers(ctx, r.execContext(ctx))
	if err != nil {
		return nil, r.graphError(err)
	}
	return r.userResolvers(users), nil
}

func (r *Resolver) User(ctx context.Context, args struct{ Login graphql.ID }) (*UserResolver, error) {
	user, err := r.users.User(ctx, r.execContext(ctx), string(args.Login))
	if err != nil {
		return nil, r.graphError(err)
	}
	return r.userResolver(user), nil
}
