package domain

import (
	"fmt"
	"time"
)

// RideStatus is the lifecycle state of a Ride.
type RideStatus string

const (
	RidePending    RideStatus = "PENDING"
	RideInProgress RideStatus = "IN_PROGRESS"
	RideCompleted  RideStatus = "COMPLETED"
	RideCancelled  RideStatus = "CANCELLED"
)

// ParseRideStatus validates a status string supplied by a caller.
func ParseRideStatus(s string) (RideStatus, error) {
	switch st := RideStatus(s); st {
	case RidePending, RideInProgress, RideCompleted, RideCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown ride status %q", ErrValidation, s)
}

// Ride is the transport job created from an accepted RideRequest.
// The assigned personnel owns its status; the requesting client owns its schedule.
type Ride struct {
	ID            int64      `json:"id"`
	PersonnelID   int64      `json:"personnel_id"`
	RideRequestID int64      `json:"ride_request_id"`
	PickupTime    time.Time  `json:"pickup_time"`
	DropoffTime   *time.Time `json:"dropoff_time,omitempty"`
	Status        RideStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RideWithRequest is a Ride joined with its underlying request, so the client
// side of the ownership split can be checked without a second lookup.
type RideWithRequest struct {
	Ride
	Request RideRequest `json:"request"`
}
