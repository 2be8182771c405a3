package repo_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
)

var emailSeq atomic.Int64

// uniqueEmail keeps accounts distinct across tests that commit (the
// concurrency test does not run inside a rolled-back transaction).
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@example.test", prefix, time.Now().UnixNano(), emailSeq.Add(1))
}

// seedClient inserts an account with role CLIENT and its linked client row.
func seedClient(t *testing.T, accounts repo.AccountRepo) domain.Client {
	t.Helper()
	ctx := context.Background()

	_, c, err := accounts.RegisterClient(ctx, domain.Account{
		Email:        uniqueEmail("client"),
		PasswordHash: "x",
		Role:         domain.RoleClient,
	}, domain.Client{FullName: "Ada Client", Phone: "555"})
	require.NoError(t, err, "seed client")
	return c
}

// seedPersonnel inserts an account with the given role and its personnel row.
func seedPersonnel(t *testing.T, accounts repo.AccountRepo, role domain.Role) domain.Personnel {
	t.Helper()
	ctx := context.Background()

	_, p, err := accounts.RegisterPersonnel(ctx, domain.Account{
		Email:        uniqueEmail(string(role)),
		PasswordHash: "x",
		Role:         role,
	}, domain.Personnel{FullName: "Bo Staff"})
	require.NoError(t, err, "seed personnel")
	return p
}

func seedRequest(t *testing.T, r repo.RideRequestRepo, clientID int64) domain.RideRequest {
	t.Helper()
	rr, err := r.Create(context.Background(), domain.RideRequest{
		ClientID:        clientID,
		PickupLocation:  "Hotel lobby",
		DropoffLocation: "Airport T2",
	})
	require.NoError(t, err, "seed ride request")
	return rr
}

func seedReservation(t *testing.T, r repo.ReservationRepo, clientID int64) domain.Reservation {
	t.Helper()
	res, err := r.Create(context.Background(), domain.Reservation{
		ClientID:   clientID,
		RoomNumber: "204",
		CheckIn:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err, "seed reservation")
	return res
}
