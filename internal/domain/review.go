package domain

import "time"

// Review is a client's rating of a reservation. Rating and Comment are fixed at
// creation; staff may set or overwrite ResponseComment.
type Review struct {
	ID              int64      `json:"id"`
	ReservationID   int64      `json:"reservation_id"`
	ClientID        int64      `json:"client_id"`
	Rating          int        `json:"rating"`
	Comment         string     `json:"comment,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ResponseComment *string    `json:"response_comment,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	RespondedBy     *int64     `json:"responded_by,omitempty"`
}

// Reservation is a client's room booking.
type Reservation struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	RoomNumber string    `json:"room_number"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	CreatedAt  time.Time `json:"created_at"`
}
