package domain

import "time"

// RideRequestStatus is the lifecycle state of a RideRequest.
type RideRequestStatus string

const (
	RideRequestPending  RideRequestStatus = "PENDING"
	RideRequestAccepted RideRequestStatus = "ACCEPTED"
	RideRequestRefused  RideRequestStatus = "REFUSED"
)

// RideRequest is a client's request for point-to-point transport.
// PersonnelID is nil until a driver or dispatcher accepts or refuses it.
type RideRequest struct {
	ID              int64             `json:"id"`
	ClientID        int64             `json:"client_id"`
	PersonnelID     *int64            `json:"personnel_id,omitempty"`
	PickupLocation  string            `json:"pickup_location"`
	DropoffLocation string            `json:"dropoff_location"`
	RequestedAt     time.Time         `json:"requested_at"`
	Status          RideRequestStatus `json:"status"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// AssignedPersonnel returns the assigned personnel id, or 0 when unassigned.
func (r RideRequest) AssignedPersonnel() int64 {
	if r.PersonnelID == nil {
		return 0
	}
	return *r.PersonnelID
}
