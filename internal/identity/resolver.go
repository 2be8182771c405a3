// Package identity turns an authenticated principal into the Actor the rest of
// the request works with. The lookup happens once per request; nothing is cached.
package identity

import (
	"context"
	"fmt"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// AccountReader is the subset of repo.AccountRepo the resolver needs.
type AccountReader interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetClientByAccountID(ctx context.Context, accountID int64) (domain.Client, error)
	GetPersonnelByAccountID(ctx context.Context, accountID int64) (domain.Personnel, error)
}

// Resolver maps principal emails onto client or personnel identities.
type Resolver struct {
	accounts AccountReader
}

// NewResolver constructs a Resolver.
func NewResolver(accounts AccountReader) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve picks the resolution path from the kind of the principal's role.
// A token whose role no longer matches the stored account role is rejected
// with domain.ErrForbidden.
func (r *Resolver) Resolve(ctx context.Context, p domain.Principal) (domain.Actor, error) {
	acc, err := r.account(ctx, "Resolve", p.Email)
	if err != nil {
		return domain.Actor{}, err
	}
	if acc.Role != p.Role {
		return domain.Actor{}, fmt.Errorf("identity.Resolve: %w: token role %s, account role %s",
			domain.ErrForbidden, p.Role, acc.Role)
	}

	switch p.Role.Kind() {
	case domain.KindClient:
		return r.client(ctx, "Resolve", acc)
	case domain.KindAdmin:
		return r.personnel(ctx, "Resolve", acc, domain.KindAdmin)
	default:
		return r.personnel(ctx, "Resolve", acc, domain.KindPersonnel)
	}
}

// ResolveClient returns the client Actor for email.
// Returns domain.ErrNotFound when the account has no client record.
func (r *Resolver) ResolveClient(ctx context.Context, email string) (domain.Actor, error) {
	acc, err := r.account(ctx, "ResolveClient", email)
	if err != nil {
		return domain.Actor{}, err
	}
	return r.client(ctx, "ResolveClient", acc)
}

// ResolvePersonnel returns the personnel Actor for email.
// Returns domain.ErrNotFound when the account has no personnel record.
func (r *Resolver) ResolvePersonnel(ctx context.Context, email string) (domain.Actor, error) {
	acc, err := r.account(ctx, "ResolvePersonnel", email)
	if err != nil {
		return domain.Actor{}, err
	}
	return r.personnel(ctx, "ResolvePersonnel", acc, domain.KindPersonnel)
}

// ResolveAdmin returns the admin Actor for email. The account must carry an
// elevated role; administrators are staff and hold a personnel record too.
func (r *Resolver) ResolveAdmin(ctx context.Context, email string) (domain.Actor, error) {
	acc, err := r.account(ctx, "ResolveAdmin", email)
	if err != nil {
		return domain.Actor{}, err
	}
	if !acc.Role.Elevated() {
		return domain.Actor{}, fmt.Errorf("identity.ResolveAdmin: %w: role %s is not an administrator",
			domain.ErrForbidden, acc.Role)
	}
	return r.personnel(ctx, "ResolveAdmin", acc, domain.KindAdmin)
}

func (r *Resolver) account(ctx context.Context, op, email string) (domain.Account, error) {
	acc, err := r.accounts.GetByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, fmt.Errorf("identity.%s: account: %w", op, err)
	}
	return acc, nil
}

func (r *Resolver) client(ctx context.Context, op string, acc domain.Account) (domain.Actor, error) {
	c, err := r.accounts.GetClientByAccountID(ctx, acc.ID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("identity.%s: client: %w", op, err)
	}
	return domain.Actor{Kind: domain.KindClient, ID: c.ID, Email: acc.Email, Role: acc.Role}, nil
}

func (r *Resolver) personnel(ctx context.Context, op string, acc domain.Account, kind domain.ActorKind) (domain.Actor, error) {
	p, err := r.accounts.GetPersonnelByAccountID(ctx, acc.ID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("identity.%s: personnel: %w", op, err)
	}
	return domain.Actor{Kind: kind, ID: p.ID, Email: acc.Email, Role: acc.Role}, nil
}
