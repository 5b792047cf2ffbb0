package application

import (
	"time"

	"cifcheck/internal/enterprise/domain"
	"cifcheck/internal/shared/validation"
)

func init() {
	if err := validation.RegisterRule("cifprefix", isCIFPrefix); err != nil {
		panic(err)
	}
}

// isCIFPrefix accepts an organization letter followed by 7 digits.
func isCIFPrefix(s string) bool {
	_, err := domain.Complete(s)
	return err == nil
}

// ValidateCIFRequest is the body of POST /cif/validate. An absent or empty
// cif is checked like any other candidate and reported invalid.
type ValidateCIFRequest struct {
	CIF string `json:"cif"`
}

// ValidateCIFResponse reports the outcome of a CIF check
type ValidateCIFResponse struct {
	CIF         string `json:"cif"`
	Valid       bool   `json:"valid"`
	ControlKind string `json:"control_kind,omitempty"`
}

// CompleteCIFRequest is the body of POST /cif/complete
type CompleteCIFRequest struct {
	Prefix string `json:"prefix" validate:"required,len=8,cifprefix"`
}

// CompleteCIFResponse carries the completed CIF
type CompleteCIFResponse struct {
	CIF string `json:"cif"`
}

// EnterpriseResponse represents a registered enterprise in API responses
type EnterpriseResponse struct {
	ID             string    `json:"id"`
	CIF            string    `json:"cif"`
	Phone          string    `json:"phone"`
	EnterpriseName string    `json:"enterprise_name"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error    string            `json:"error"`
	Kind     string            `json:"kind,omitempty"`
	Problems map[string]string `json:"problems,omitempty"`
}

// ToEnterpriseResponse converts a stored record to an API response
func ToEnterpriseResponse(r domain.StoredRecord) EnterpriseResponse {
	return EnterpriseResponse{
		ID:             r.ID.String(),
		CIF:            r.CIF.String(),
		Phone:          r.Phone,
		EnterpriseName: r.Name,
		RegisteredAt:   r.RegisteredAt.UTC(),
	}
}

// ToEnterpriseResponses converts a list of stored records
func ToEnterpriseResponses(records []domain.StoredRecord) []EnterpriseResponse {
	responses := make([]EnterpriseResponse, len(records))
	for i, r := range records {
		responses[i] = ToEnterpriseResponse(r)
	}
	return responses
}
