package models

import "time"

// RecommendedService es lo que devuelve el endpoint de recomendaciones:
// la proyección del servicio más las razones por las que se eligió.
// El score combinado es interno al engine y no se expone.
type RecommendedService struct {
	ServiceDoc            `bson:",inline"`
	RecommendationReasons []string `json:"recommendationReasons" bson:"recommendationReasons"`
}

// ====== Historial de recomendaciones generadas (colección recommendations) ======

type RecItem struct {
	ServiceID int      `json:"serviceId" bson:"serviceId"`
	Reasons   []string `json:"reasons" bson:"reasons"`
}

type RecommendationLog struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    int       `bson:"userId" json:"userId"`
	Algo      string    `bson:"algo" json:"algo"`
	Params    any       `bson:"params" json:"params"`
	Items     []RecItem `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
