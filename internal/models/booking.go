package models

// Estados del ciclo de vida de una reserva.
const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in-progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusRejected   = "rejected"
)

type BookingDoc struct {
	BookingID       int     `json:"bookingId" bson:"bookingId"`
	CustomerID      int     `json:"customerId" bson:"customerId"`
	ServiceID       int     `json:"serviceId" bson:"serviceId"`
	ProviderID      int     `json:"providerId" bson:"providerId"`
	BookingDate     string  `json:"bookingDate" bson:"bookingDate"`
	BookingTime     string  `json:"bookingTime" bson:"bookingTime"`
	CustomerAddress string  `json:"customerAddress,omitempty" bson:"customerAddress,omitempty"`
	SpecialRequests string  `json:"specialRequests,omitempty" bson:"specialRequests,omitempty"`
	Status          string  `json:"status" bson:"status"`
	TotalAmount     float64 `json:"totalAmount" bson:"totalAmount"`
	PaymentStatus   string  `json:"paymentStatus,omitempty" bson:"paymentStatus,omitempty"`
	PaymentMethod   string  `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	CancelReason    string  `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CompletedAt     string  `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CancelledAt     string  `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CreatedAt       string  `json:"createdAt" bson:"createdAt"`
	UpdatedAt       string  `json:"updatedAt" bson:"updatedAt"`

	// Proyecciones join (las arma el repositorio; si faltan, los
	// consumidores las tratan como dato ausente y omiten el registro).
	Service  *ServiceDoc   `json:"service,omitempty" bson:"-"`
	Provider *ProviderInfo `json:"provider,omitempty" bson:"-"`
}
