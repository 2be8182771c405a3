// Package access is the single authorization decision point.
//
// Decisions are made from three inputs: the resolved actor, the action, and
// the ownership facts of the target resource. Rules, first match wins:
//
//  1. ADMIN and SUPER_ADMIN are allowed everything.
//  2. A role without the action in its capability table is denied.
//  3. The action's ownership rule for that role is checked against the
//     actor's derived id (client id or personnel id).
//  4. Anything else is denied.
package access

import (
	"fmt"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
)

// Action names an operation on a resource.
type Action string

const (
	RideRequestCreate      Action = "ride_request:create"
	RideRequestRead        Action = "ride_request:read"
	RideRequestCancel      Action = "ride_request:cancel"
	RideRequestListPending Action = "ride_request:list_pending"
	RideRequestAccept      Action = "ride_request:accept"
	RideRequestRefuse      Action = "ride_request:refuse"

	RideCreate       Action = "ride:create"
	RideRead         Action = "ride:read"
	RideUpdateStatus Action = "ride:update_status"
	RideReschedule   Action = "ride:reschedule"

	DocumentCreate   Action = "document:create"
	DocumentListOwn  Action = "document:list_own"
	DocumentListAny  Action = "document:list_any"
	DocumentValidate Action = "document:validate"

	ReservationCreate Action = "reservation:create"
	ReservationRead   Action = "reservation:read"

	ReviewCreate  Action = "review:create"
	ReviewRespond Action = "review:respond"
	ReviewList    Action = "review:list"

	TicketCreate Action = "ticket:create"
	TicketRead   Action = "ticket:read"
	TicketAssign Action = "ticket:assign"
	TicketClose  Action = "ticket:close"

	TicketListOwn      Action = "ticket:list_own"
	TicketListAssigned Action = "ticket:list_assigned"
	TicketListAny      Action = "ticket:list_any"

	// PersonnelCreate is held by no role; only administrators register staff.
	PersonnelCreate Action = "personnel:create"
)

// Resource carries the ownership facts of the target. Zero means "none".
// For a ride, ClientID is the client of the underlying request and
// PersonnelID the assigned driver.
type Resource struct {
	ClientID    int64
	PersonnelID int64
}

// ownership is the rule checked once a role holds the capability.
type ownership int

const (
	// anyResource: the capability alone is enough.
	anyResource ownership = iota
	// ownClient: the actor must be the owning client.
	ownClient
	// ownPersonnel: the actor must be the assigned personnel.
	ownPersonnel
	// ownPersonnelOrUnassigned: the assigned personnel, or anyone holding the
	// capability while nobody is assigned yet.
	ownPersonnelOrUnassigned
	// notOwnPersonnel: anyone holding the capability except the personnel the
	// resource belongs to.
	notOwnPersonnel
)

type grants map[Action]ownership

var (
	clientGrants = grants{
		RideRequestCreate: anyResource,
		RideRequestRead:   ownClient,
		RideRequestCancel: ownClient,
		RideRead:          ownClient,
		RideReschedule:    ownClient,
		ReservationCreate: anyResource,
		ReservationRead:   ownClient,
		ReviewCreate:      ownClient,
		TicketCreate:      anyResource,
		TicketRead:        ownClient,
		TicketListOwn:     anyResource,
	}

	// dispatchGrants are shared by every dispatch-capable role.
	dispatchGrants = grants{
		RideRequestListPending: anyResource,
		RideRequestRead:        ownPersonnelOrUnassigned,
		RideRequestAccept:      ownPersonnelOrUnassigned,
		RideRequestRefuse:      ownPersonnelOrUnassigned,
		RideCreate:             ownPersonnel,
		RideRead:               ownPersonnel,
		RideUpdateStatus:       ownPersonnel,
		TicketRead:             ownPersonnel,
		TicketClose:            ownPersonnel,
		TicketListAssigned:     anyResource,
	}

	frontDeskGrants = grants{
		ReservationRead: anyResource,
		ReviewRespond:   anyResource,
		ReviewList:      anyResource,
		TicketRead:      anyResource,
		TicketAssign:    anyResource,
		TicketClose:     anyResource,
		TicketListAny:   anyResource,
	}
)

// capabilities is the role → action → ownership table. ADMIN and SUPER_ADMIN
// are absent on purpose: rule 1 handles them before the table is consulted.
var capabilities = map[domain.Role]grants{
	domain.RoleClient:               clientGrants,
	domain.RoleDriver:               merge(dispatchGrants, grants{DocumentCreate: anyResource, DocumentListOwn: anyResource}),
	domain.RoleDispatcher:           dispatchGrants,
	domain.RoleReceptionist:         frontDeskGrants,
	domain.RoleAccommodationManager: frontDeskGrants,
	domain.RoleFleetManager: {
		DocumentListAny:    anyResource,
		DocumentValidate:   notOwnPersonnel,
		TicketRead:         ownPersonnel,
		TicketClose:        ownPersonnel,
		TicketListAssigned: anyResource,
	},
}

func merge(gs ...grants) grants {
	out := grants{}
	for _, g := range gs {
		for a, o := range g {
			out[a] = o
		}
	}
	return out
}

// Authorize returns nil when actor may perform action on res, and an error
// wrapping domain.ErrForbidden otherwise.
func Authorize(actor domain.Actor, action Action, res Resource) error {
	if actor.Role.Elevated() {
		return nil
	}

	own, ok := capabilities[actor.Role][action]
	if !ok {
		return deny(actor, action)
	}

	switch own {
	case anyResource:
		return nil
	case ownClient:
		if actor.IsClient(res.ClientID) {
			return nil
		}
	case ownPersonnel:
		if actor.IsPersonnel(res.PersonnelID) {
			return nil
		}
	case ownPersonnelOrUnassigned:
		if actor.Kind == domain.KindPersonnel && (res.PersonnelID == 0 || actor.IsPersonnel(res.PersonnelID)) {
			return nil
		}
	case notOwnPersonnel:
		if !actor.IsPersonnel(res.PersonnelID) {
			return nil
		}
	}
	return deny(actor, action)
}

// Can reports whether role holds action at all, ignoring ownership.
// Handlers use it to pick a listing scope, never to grant access.
func Can(role domain.Role, action Action) bool {
	if role.Elevated() {
		return true
	}
	_, ok := capabilities[role][action]
	return ok
}

func deny(actor domain.Actor, action Action) error {
	return fmt.Errorf("%w: %s may not perform %s", domain.ErrForbidden, actor.Role, action)
}
