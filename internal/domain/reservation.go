package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle state of a stock reservation (reserva)
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ativa"
	ReservationConfirmed ReservationStatus = "confirmada"
	ReservationCancelled ReservationStatus = "cancelada"
	ReservationExpired   ReservationStatus = "expirada"
)

// Reservation is a time-bounded hold on stock. Transitions are driven by the
// reservation subsystem; discovery only consumes the adjusted quantities.
type Reservation struct {
	ID        uuid.UUID         `json:"id"`
	StockID   uuid.UUID         `json:"stock_id"`
	Quantity  int               `json:"quantity"`
	Status    ReservationStatus `json:"status"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
}

// IsTerminal reports whether no further transitions are allowed
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationConfirmed, ReservationCancelled, ReservationExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is a valid transition
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	return s == ReservationActive && next.IsTerminal()
}

// IsExpired reports whether an active reservation has passed its deadline
func (r Reservation) IsExpired(now time.Time) bool {
	return r.Status == ReservationActive && now.After(r.ExpiresAt)
}
