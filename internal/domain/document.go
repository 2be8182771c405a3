package domain

import (
	"fmt"
	"time"
)

// DocumentType enumerates the driver documents the fleet keeps on file.
type DocumentType string

const (
	DocDrivingLicense      DocumentType = "DRIVING_LICENSE"
	DocVehicleRegistration DocumentType = "VEHICLE_REGISTRATION"
	DocInsurance           DocumentType = "INSURANCE"
	DocIdentityCard        DocumentType = "IDENTITY_CARD"
	DocOther               DocumentType = "OTHER"
)

// ParseDocumentType validates a document type supplied by a caller.
func ParseDocumentType(s string) (DocumentType, error) {
	switch t := DocumentType(s); t {
	case DocDrivingLicense, DocVehicleRegistration, DocInsurance, DocIdentityCard, DocOther:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown document type %q", ErrValidation, s)
}

// DriverDocument is a file a driver submits for administrative verification.
// ValidatedAt is nil until the document has been checked at least once.
type DriverDocument struct {
	ID             int64        `json:"id"`
	PersonnelID    int64        `json:"personnel_id"`
	DocumentType   DocumentType `json:"document_type"`
	URL            string       `json:"url"`
	ExpirationDate time.Time    `json:"expiration_date"`
	Verified       bool         `json:"verified"`
	ValidatedAt    *time.Time   `json:"validated_at,omitempty"`
	ValidatedBy    *int64       `json:"validated_by,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
