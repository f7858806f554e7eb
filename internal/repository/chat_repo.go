package repository

import (
	"context"

	"servizo-backend/internal/db"
	"servizo-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository struct {
	col *mongo.Collection
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{col: db.DB().Collection("chat_messages")}
}

func (r *ChatRepository) Insert(ctx context.Context, msg *models.ChatMessage) error {
	_, err := r.col.InsertOne(ctx, msg)
	return err
}

// Latest devuelve los últimos mensajes en orden cronológico (para
// replay al entrar al lobby).
func (r *ChatRepository) Latest(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ChatMessage
	for cur.Next(ctx) {
		var m models.ChatMessage
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	// invertimos: Mongo los trae del más nuevo al más viejo
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
