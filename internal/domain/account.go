package domain

import "time"

// Account is a login identity. Clients and personnel each link to one account.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Client is a hotel guest / ride customer.
type Client struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone,omitempty"`
}

// Personnel is a staff member: driver, dispatcher, receptionist, manager.
type Personnel struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	FullName  string `json:"full_name"`
}
