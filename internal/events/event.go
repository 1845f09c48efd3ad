// internal/events/event.go

// Package events publishes reservation lifecycle events to RabbitMQ for
// downstream consumers (notifications, analytics). Publishing is best-effort;
// the scheduler never fails an operation because the broker is down.
package events

// Routing keys double as queue names on the default exchange.
const (
	RouteReservationConfirmed   = "reservation.confirmed"
	RouteReservationCancelled   = "reservation.cancelled"
	RouteReservationRescheduled = "reservation.rescheduled"
)

// ReservationEvent carries enough context for consumers to act without
// querying the primary database.
type ReservationEvent struct {
	ReservationID     int64  `json:"reservation_id"`
	FieldID           int64  `json:"field_id"`
	UserID            int64  `json:"user_id"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	Status            string `json:"status"`
	PriceCents        int64  `json:"price_cents"`
	RescheduledFromID int64  `json:"rescheduled_from_id,omitempty"`
	OccurredAt        string `json:"occurred_at"`
}
