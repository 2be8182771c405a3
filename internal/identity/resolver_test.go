package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/identity"
)

// mockAccounts is an in-memory AccountReader keyed by email.
type mockAccounts struct {
	accounts  map[string]domain.Account
	clients   map[int64]domain.Client
	personnel map[int64]domain.Personnel
	calls     int
}

var _ identity.AccountReader = (*mockAccounts)(nil)

func (m *mockAccounts) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	m.calls++
	a, ok := m.accounts[email]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *mockAccounts) GetClientByAccountID(_ context.Context, id int64) (domain.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return domain.Client{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockAccounts) GetPersonnelByAccountID(_ context.Context, id int64) (domain.Personnel, error) {
	p, ok := m.personnel[id]
	if !ok {
		return domain.Personnel{}, domain.ErrNotFound
	}
	return p, nil
}

func newMock() *mockAccounts {
	return &mockAccounts{
		accounts: map[string]domain.Account{
			"ada@example.test":   {ID: 1, Email: "ada@example.test", Role: domain.RoleClient},
			"bo@example.test":    {ID: 2, Email: "bo@example.test", Role: domain.RoleDriver},
			"root@example.test":  {ID: 3, Email: "root@example.test", Role: domain.RoleAdmin},
			"ghost@example.test": {ID: 4, Email: "ghost@example.test", Role: domain.RoleDriver},
		},
		clients:   map[int64]domain.Client{1: {ID: 10, AccountID: 1}},
		personnel: map[int64]domain.Personnel{2: {ID: 20, AccountID: 2}, 3: {ID: 30, AccountID: 3}},
	}
}

func TestResolveClient(t *testing.T) {
	r := identity.NewResolver(newMock())

	got, err := r.ResolveClient(context.Background(), "ada@example.test")
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{Kind: domain.KindClient, ID: 10, Email: "ada@example.test", Role: domain.RoleClient}, got)
}

func TestResolvePersonnel_MissingLink(t *testing.T) {
	r := identity.NewResolver(newMock())

	_, err := r.ResolvePersonnel(context.Background(), "ghost@example.test")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.ResolveClient(context.Background(), "bo@example.test")
	assert.ErrorIs(t, err, domain.ErrNotFound, "a driver has no client record")
}

func TestResolveAdmin(t *testing.T) {
	r := identity.NewResolver(newMock())

	got, err := r.ResolveAdmin(context.Background(), "root@example.test")
	require.NoError(t, err)
	assert.Equal(t, domain.KindAdmin, got.Kind)
	assert.Equal(t, int64(30), got.ID, "administrators carry their personnel id, not account id 3")

	_, err = r.ResolveAdmin(context.Background(), "bo@example.test")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResolve_DispatchesOnRoleKind(t *testing.T) {
	m := newMock()
	r := identity.NewResolver(m)
	ctx := context.Background()

	tests := []struct {
		name      string
		principal domain.Principal
		wantKind  domain.ActorKind
		wantID    int64
	}{
		{"client", domain.Principal{Email: "ada@example.test", Role: domain.RoleClient}, domain.KindClient, 10},
		{"driver", domain.Principal{Email: "bo@example.test", Role: domain.RoleDriver}, domain.KindPersonnel, 20},
		{"admin", domain.Principal{Email: "root@example.test", Role: domain.RoleAdmin}, domain.KindAdmin, 30},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Resolve(ctx, tc.principal)
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, got.Kind)
			assert.Equal(t, tc.wantID, got.ID)
		})
	}
}

func TestResolve_StaleTokenRole(t *testing.T) {
	r := identity.NewResolver(newMock())

	_, err := r.Resolve(context.Background(), domain.Principal{Email: "bo@example.test", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResolve_UnknownEmail(t *testing.T) {
	r := identity.NewResolver(newMock())

	_, err := r.Resolve(context.Background(), domain.Principal{Email: "nobody@example.test", Role: domain.RoleClient})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_NoCaching(t *testing.T) {
	m := newMock()
	r := identity.NewResolver(m)
	p := domain.Principal{Email: "ada@example.test", Role: domain.RoleClient}

	_, _ = r.Resolve(context.Background(), p)
	_, _ = r.Resolve(context.Background(), p)
	assert.Equal(t, 2, m.calls)
}
