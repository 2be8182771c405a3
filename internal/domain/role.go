package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles carried in access tokens.
type Role string

const (
	RoleClient               Role = "CLIENT"
	RoleDriver               Role = "DRIVER"
	RoleDispatcher           Role = "DISPATCHER"
	RoleReceptionist         Role = "RECEPTIONIST"
	RoleAccommodationManager Role = "ACCOMMODATION_MANAGER"
	RoleFleetManager         Role = "FLEET_MANAGER"
	RoleAdmin                Role = "ADMIN"
	RoleSuperAdmin           Role = "SUPER_ADMIN"
)

var roles = []Role{
	RoleClient, RoleDriver, RoleDispatcher, RoleReceptionist,
	RoleAccommodationManager, RoleFleetManager, RoleAdmin, RoleSuperAdmin,
}

// ParseRole converts a token or database value into a Role.
// Matching is case-insensitive; unknown values are a validation error.
func ParseRole(s string) (Role, error) {
	u := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range roles {
		if r == u {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// Kind returns the kind of domain record an account with this role is linked to.
func (r Role) Kind() ActorKind {
	switch r {
	case RoleClient:
		return KindClient
	case RoleAdmin, RoleSuperAdmin:
		return KindAdmin
	default:
		return KindPersonnel
	}
}

// Elevated reports whether the role bypasses ownership checks entirely.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ActorKind identifies which table an actor's ID refers to.
type ActorKind string

const (
	KindClient    ActorKind = "CLIENT"
	KindPersonnel ActorKind = "PERSONNEL"
	KindAdmin     ActorKind = "ADMIN"
)

// Principal is the verified identity supplied by the authentication middleware.
// It carries only what the token asserts; it is never trusted for ownership.
type Principal struct {
	Email string
	Role  Role
}

// Actor is the resolved domain identity behind a Principal.
// ID is a client id for KindClient and a personnel id for KindPersonnel and
// KindAdmin, since administrators act through their personnel row. Actors are
// passed by value and never mutated.
type Actor struct {
	Kind  ActorKind
	ID    int64
	Email string
	Role  Role
}

// IsClient reports whether the actor acts as the client with the given id.
func (a Actor) IsClient(clientID int64) bool {
	return a.Kind == KindClient && clientID != 0 && a.ID == clientID
}

// IsPersonnel reports whether the actor acts as the personnel with the given id.
func (a Actor) IsPersonnel(personnelID int64) bool {
	return a.Kind == KindPersonnel && personnelID != 0 && a.ID == personnelID
}
