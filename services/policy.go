package services

import (
	"localstay-server/models"
)

// Actor is the authenticated identity behind a request, extracted from the
// access token once per request and passed explicitly to every engine
// operation. The engines never read ambient session state.
type Actor struct {
	ID   uint
	Role string
}

// Authenticated reports whether the actor carries a real identity.
func (a Actor) Authenticated() bool { return a.ID != 0 }

// Actions gated by the access policy.
const (
	ActionCreateStay     = "stay.create"
	ActionUpdateStay     = "stay.update"
	ActionDeleteStay     = "stay.delete"
	ActionRequestBooking = "booking.request"
	ActionActOnBooking   = "booking.act"
	ActionViewBookings   = "booking.view"
	ActionManageHosts    = "host.manage"
)

// CanPerform is the pure role/ownership gate consulted before every
// mutation. ownerID is the owning user of the resource acted on (the stay's
// host for stay and booking actions); it is ignored for actions that are
// not ownership-scoped.
func CanPerform(actor Actor, action string, ownerID uint) bool {
	if !actor.Authenticated() {
		return false
	}

	switch action {
	case ActionCreateStay:
		return actor.Role == models.RoleHost
	case ActionUpdateStay:
		return actor.Role == models.RoleHost && actor.ID == ownerID
	case ActionDeleteStay:
		// Admin override: admins may delete any stay.
		if actor.Role == models.RoleAdmin {
			return true
		}
		return actor.Role == models.RoleHost && actor.ID == ownerID
	case ActionRequestBooking:
		return actor.Role == models.RoleTraveler
	case ActionActOnBooking:
		return actor.Role == models.RoleHost && actor.ID == ownerID
	case ActionViewBookings:
		return actor.Role == models.RoleTraveler || actor.Role == models.RoleHost
	case ActionManageHosts:
		return actor.Role == models.RoleAdmin
	}
	return false
}
