// internal/domain/status/catalog.go
package status

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrStatusNotFound = errors.New("status not found in catalog")

// Status is one row of a status reference table (review_statuses, contract_recommendation_statuses).
type Status struct {
	ID          int32
	Description string
	ActionName  string
}

// Progression is a directed edge of the allowed status-transition graph.
type Progression struct {
	ID              int32
	CurrentStatusID int32
	NextStatusID    int32
}

// TransitionError reports an edge that is not part of the progression graph.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	from := e.From
	if from == "" {
		from = "<no status>"
	}
	return fmt.Sprintf("transition error [%s->%s]: progression not allowed", from, e.To)
}

// Catalog is the status reference data and progression graph loaded for a single request.
type Catalog struct {
	statuses []Status
	byID     map[int32]Status
	byDesc   map[string]Status
	next     map[int32][]int32
	incoming map[int32]int
}

// NewCatalog indexes statuses and edges. Edges pointing at unknown statuses are kept but never
// resolved by NextStatuses.
func NewCatalog(statuses []Status, progressions []Progression) *Catalog {
	c := &Catalog{
		statuses: statuses,
		byID:     make(map[int32]Status, len(statuses)),
		byDesc:   make(map[string]Status, len(statuses)),
		next:     make(map[int32][]int32),
		incoming: make(map[int32]int),
	}
	for _, s := range statuses {
		c.byID[s.ID] = s
		c.byDesc[normalize(s.Description)] = s
	}
	for _, p := range progressions {
		c.next[p.CurrentStatusID] = append(c.next[p.CurrentStatusID], p.NextStatusID)
		c.incoming[p.NextStatusID]++
	}
	return c
}

func normalize(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}

// Statuses returns every status in load order.
func (c *Catalog) Statuses() []Status {
	return c.statuses
}

func (c *Catalog) ByID(id int32) (Status, error) {
	s, ok := c.byID[id]
	if !ok {
		return Status{}, fmt.Errorf("status id %d: %w", id, ErrStatusNotFound)
	}
	return s, nil
}

// ByDescription looks a status up case-insensitively.
func (c *Catalog) ByDescription(description string) (Status, error) {
	s, ok := c.byDesc[normalize(description)]
	if !ok {
		return Status{}, fmt.Errorf("status %q: %w", description, ErrStatusNotFound)
	}
	return s, nil
}

// NextStatuses lists the statuses reachable in one step, ordered by id.
func (c *Catalog) NextStatuses(fromID int32) []Status {
	ids := c.next[fromID]
	out := make([]Status, 0, len(ids))
	for _, id := range ids {
		if s, ok := c.byID[id]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) CanProgress(fromID, toID int32) bool {
	for _, id := range c.next[fromID] {
		if id == toID {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edge (e.g. Archived, Cancelled).
func (c *Catalog) IsTerminal(id int32) bool {
	return len(c.next[id]) == 0
}

// IsInitial reports whether nothing progresses into the status, so an entity may start there.
func (c *Catalog) IsInitial(id int32) bool {
	return c.incoming[id] == 0
}

// CheckProgression validates moving from the current status (nil when there is no history) to next.
func (c *Catalog) CheckProgression(current *int32, next string) (Status, error) {
	target, err := c.ByDescription(next)
	if err != nil {
		return Status{}, err
	}
	if current == nil {
		if !c.IsInitial(target.ID) {
			return Status{}, &TransitionError{To: target.Description}
		}
		return target, nil
	}
	if !c.CanProgress(*current, target.ID) {
		from := fmt.Sprintf("#%d", *current)
		if s, ok := c.byID[*current]; ok {
			from = s.Description
		}
		return Status{}, &TransitionError{From: from, To: target.Description}
	}
	return target, nil
}
