// internal/api/types/response.go
package types

// ListResponse defines a generic structure for bounded list API responses.
// Limit is the effective bound after defaulting, so clients can tell a full
// page from an exhausted history.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Limit int `json:"limit"`
}
