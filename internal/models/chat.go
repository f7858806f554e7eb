package models

import "time"

// ChatMessage es un mensaje del lobby de chat (colección chat_messages).
// UserID puede ser 0 para invitados.
type ChatMessage struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    int       `json:"userId,omitempty" bson:"userId,omitempty"`
	UserName  string    `json:"userName" bson:"userName"`
	Message   string    `json:"message" bson:"message"`
	IsAdmin   bool      `json:"isAdmin" bson:"isAdmin"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
