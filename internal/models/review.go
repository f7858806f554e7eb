package models

type ReviewDoc struct {
	ReviewID   int    `json:"reviewId" bson:"reviewId"`
	ServiceID  int    `json:"serviceId" bson:"serviceId"`
	BookingID  int    `json:"bookingId" bson:"bookingId"`
	CustomerID int    `json:"customerId" bson:"customerId"`
	ProviderID int    `json:"providerId" bson:"providerId"`
	Rating     int    `json:"rating" bson:"rating"` // 1..5, entero
	Comment    string `json:"comment" bson:"comment"`
	IsVerified bool   `json:"isVerified" bson:"isVerified"` // true si la reserva estaba completada
	CreatedAt  string `json:"createdAt" bson:"createdAt"`
}
