package status

import "context"

// Repository reads one status reference table and its progression table.
// Absence of rows is an empty result, not an error.
type Repository interface {
	ListStatuses(ctx context.Context) ([]Status, error)
	ListAllowedProgressions(ctx context.Context) ([]Progression, error)
}
