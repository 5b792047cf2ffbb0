package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document keys of an enterprise record.
const (
	KeyCIF            = "cif"
	KeyPhone          = "phone"
	KeyEnterpriseName = "enterprise_name"
)

// RequiredKeys lists the document keys in extraction order.
var RequiredKeys = []string{KeyCIF, KeyPhone, KeyEnterpriseName}

// Record is an enterprise request: a CIF plus contact details.
// Phone and Name carry no format invariants beyond presence.
type Record struct {
	CIF   CIF
	Phone string
	Name  string
}

// NewRecord builds a record from raw field values, validating the CIF.
func NewRecord(cif, phone, name string) (Record, error) {
	id, err := NewCIF(cif)
	if err != nil {
		return Record{}, err
	}
	return Record{CIF: id, Phone: phone, Name: name}, nil
}

// StoredRecord is a record kept in the enterprise registry.
type StoredRecord struct {
	ID           uuid.UUID
	RegisteredAt time.Time
	Record
}

type Repository interface {
	// Save inserts the record or updates the one sharing its CIF.
	Save(ctx context.Context, rec Record) (StoredRecord, error)
	Get(ctx context.Context, cif CIF) (StoredRecord, error)
	List(ctx context.Context) ([]StoredRecord, error)
}
