package graph

import (
	"context"

	"photo-share-api/internal/domain"

	graphql "github.com/graph-gophers/graphql-go"
)

// PostPhotoInput mirrors the PostPhotoInput input type
type PostPhotoInput struct {
	Name          string
	Category      *string
	Description   *string
	TaggedUserIDs *[]graphql.ID
}

func (in PostPhotoInput) toDomain() domain.PostPhotoInput {
	out := domain.PostPhotoInput{Name: in.Name, Description: in.Description}
	if in.Category != nil {
		out.Category = domain.PhotoCategory(*in.Category)
	}
	if in.TaggedUserIDs != nil {
		for _, id := range *in.TaggedUserIDs {
			out.TaggedUserIDs = append(out.TaggedUserIDs, string(id))
		}
	}
	return out
}

func (r *Resolver) PostPhoto(ctx context.Context, args struct{ Input PostPhotoInput }) (*PhotoResolver, error) {
	photo, err := r.photos.PostPhoto(ctx, r.execContext(ctx), args.Input.toDomain())
	if err != nil {
		return nil, r.graphError(err)
	}
	return r.photoResolver(photo), nil
}

func (r *Resolver) GithubAuth(ctx context.Context, args struct{ Code string }) (*AuthPayloadResolver, error) {
	payload, err := r.users.GithubAuth(ctx, r.execContext(ctx), args.Code)
	if err != nil {
		return nil, r.graphError(err)
	}
	return &AuthPayloadResolver{root: r, payload: payload}, nil
}

func (r *Resolver) AddFakeUsers(ctx context.Context, args struct{ Count *int32 }) ([]*UserResolver, error) {
	count := 1
	if args.Count != nil {
		count = int(*args.Count)
	}

	users, err := r.users.AddFakeUsers(ctx, r.execContext(ctx), count)
	if err != nil {
		return nil, r.graphError(err)
	}
	return r.userResolvers(users), nil
}

func (r *Resolver) FakeUserAuth(ctx context.Context, args struct{ GithubLogin graphql.ID }) (*AuthPayloadResolver, error) {
	payload, err := r.users.FakeUserAuth(ctx, r.execContext(ctx), string(args.GithubLogin))
	if err != nil {
		return nil, r.graphError(err)
	}
	return &AuthPayloadResolver{root: r, payload: payload}, nil
}
