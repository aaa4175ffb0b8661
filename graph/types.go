package graph

import (
	"context"

	"photo-share-api/internal/application"
	"photo-share-api/internal/domain"

	graphql "github.com/graph-gophers/graphql-go"
)

// PhotoResolver resolves the Photo type
type PhotoResolver struct {
	root  *Resolver
	photo *domain.Photo
}

func (r *Resolver) photoResolver(p *domain.Photo) *PhotoResolver {
	return &PhotoResolver{root: r, photo: p}
}

func (r *Resolver) photoResolvers(photos []*domain.Photo) []*PhotoResolver {
	out := make([]*PhotoResolver, 0, len(photos))
	for _, p := range photos {
		out = append(out, r.photoResolver(p))
	}
	return out
}

func (p *PhotoResolver) ID() graphql.ID {
	return graphql.ID(p.photo.ID)
}

func (p *PhotoResolver) URL() string {
	return p.root.relations.PhotoURL(p.photo)
}

func (p *PhotoResolver) Name() string {
	return p.photo.Name
}

// Description distinguishes an empty description from none
func (p *PhotoResolver) Description() *string {
	return p.photo.Description
}

func (p *PhotoResolver) Category() string {
	return string(p.photo.Category)
}

// PostedBy resolves to null when the owner no longer exists
func (p *PhotoResolver) PostedBy(ctx context.Context) (*UserResolver, error) {
	user, err := p.root.relations.PostedBy(ctx, p.root.execContext(ctx), p.photo)
	if err != nil {
		return nil, p.root.graphError(err)
	}
	if user == nil {
		return nil, nil
	}
	return p.root.userResolver(user), nil
}

func (p *PhotoResolver) TaggedUsers(ctx context.Context) ([]*UserResolver, error) {
	users, err := p.root.relations.TaggedUsers(ctx, p.root.execContext(ctx), p.photo)
	if err != nil {
		return nil, p.root.graphError(err)
	}
	return p.root.userResolvers(users), nil
}

func (p *PhotoResolver) Created() DateTime {
	return DateTime{Time: p.photo.Created}
}

// UserResolver resolves the User type
type UserResolver struct {
	root *Resolver
	user *domain.User
}

func (r *Resolver) userResolver(u *domain.User) *UserResolver {
	return &UserResolver{root: r, user: u}
}

func (r *Resolver) userResolvers(users []*domain.User) []*UserResolver {
	out := make([]*UserResolver, 0, len(users))
	for _, u := range users {
		out = append(out, r.userResolver(u))
	}
	return out
}

func (u *UserResolver) GithubLogin() graphql.ID {
	return graphql.ID(u.user.GithubLogin)
}

func (u *UserResolver) Name() *string {
	return optional(u.user.Name)
}

func (u *UserResolver) Avatar() *string {
	return optional(u.user.Avatar)
}

func (u *UserResolver) PostedPhotos(ctx context.Context) ([]*PhotoResolver, error) {
	photos, err := u.root.relations.PostedPhotos(ctx, u.root.execContext(ctx), u.user)
	if err != nil {
		return nil, u.root.graphError(err)
	}
	return u.root.photoResolvers(photos), nil
}

func (u *UserResolver) InPhotos(ctx context.Context) ([]*PhotoResolver, error) {
	photos, err := u.root.relations.InPhotos(ctx, u.root.execContext(ctx), u.user)
	if err != nil {
		return nil, u.root.graphError(err)
	}
	return u.root.photoResolvers(photos), nil
}

// AuthPayloadResolver resolves the AuthPayload type
type AuthPayloadResolver struct {
	root    *Resolver
	payload *application.AuthPayload
}

func (a *AuthPayloadResolver) Token() string {
	return a.payload.Token
}

func (a *AuthPayloadResolver) User() *UserResolver {
	return a.root.userResolver(a.payload.User)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
