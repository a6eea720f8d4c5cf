package blocks

import (
	"errors"
	"strings"
	"time"

	"github.com/samithkalyan/telehealth-booking/internal/schedule"
)

var (
	// ErrBlockNotFound is returned when no block matches the given id.
	ErrBlockNotFound = errors.New("block not found")

	// ErrDateRequired is returned when a create request has no date expression.
	ErrDateRequired = errors.New("date is required")
)

// Block is a practitioner-defined unavailability rule. Date is a single
// ISO date, a "start to end" range, or an "&"-joined set; Window is the
// en-dash separated time window used by slot-scope blocks.
type Block struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Window    string    `json:"window,omitempty"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// Rule converts the stored record to the resolver's predicate form.
func (b *Block) Rule() schedule.BlockRule {
	return schedule.BlockRule{
		DateExpr: b.Date,
		Window:   b.Window,
		Scope:    b.Scope,
	}
}

// UpsertBlockRequest is the payload for creating or editing a block.
// Blocks may overlap freely; the resolver combines them with OR.
type UpsertBlockRequest struct {
	Date   string `json:"date"`
	Window string `json:"window"`
	Scope  string `json:"scope"`
}

// Normalize applies defaults and trims inputs.
func (r *UpsertBlockRequest) Normalize() error {
	r.Date = strings.TrimSpace(r.Date)
	r.Window = strings.TrimSpace(r.Window)
	r.Scope = strings.ToLower(strings.TrimSpace(r.Scope))
	if r.Date == "" {
		return ErrDateRequired
	}
	if r.Scope == "" {
		r.Scope = schedule.ScopeDay
	}
	return nil
}
