package models

// Categorías permitidas para un servicio (enum cerrado, en minúscula).
var ServiceCategories = []string{
	"cleaning",
	"ac",
	"plumbing",
	"electrical",
	"painting",
	"beauty",
	"appliance",
	"pest-control",
	"home-repair",
	"other",
}

func IsValidCategory(category string) bool {
	for _, c := range ServiceCategories {
		if c == category {
			return true
		}
	}
	return false
}

type RatingStats struct {
	Average float64 `json:"average" bson:"average"`
	Count   int     `json:"count" bson:"count"`
}

// ProviderInfo es la proyección del proveedor que viaja junto al servicio
// (join resuelto en el repositorio, no en Mongo).
type ProviderInfo struct {
	UserID int    `json:"userId" bson:"userId"`
	Name   string `json:"name" bson:"name"`
	City   string `json:"city,omitempty" bson:"city,omitempty"`
	State  string `json:"state,omitempty" bson:"state,omitempty"`
}

type ServiceDoc struct {
	ServiceID    int           `json:"serviceId" bson:"serviceId"`
	Title        string        `json:"title" bson:"title"`
	Description  string        `json:"description" bson:"description"`
	Category     string        `json:"category" bson:"category"`
	Subcategory  string        `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Price        float64       `json:"price" bson:"price"`
	PriceType    string        `json:"priceType,omitempty" bson:"priceType,omitempty"`
	Duration     int           `json:"duration,omitempty" bson:"duration,omitempty"` // minutos
	ProviderID   int           `json:"providerId" bson:"providerId"`
	Provider     *ProviderInfo `json:"provider,omitempty" bson:"provider,omitempty"`
	City         string        `json:"city,omitempty" bson:"city,omitempty"`
	Rating       *RatingStats  `json:"rating,omitempty" bson:"rating,omitempty"`
	BookingCount int           `json:"bookingCount" bson:"bookingCount"`
	IsActive     bool          `json:"isActive" bson:"isActive"`
	Tags         []string      `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt    string        `json:"createdAt" bson:"createdAt"`
	UpdatedAt    string        `json:"updatedAt" bson:"updatedAt"`
}
