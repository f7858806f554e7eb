package handler

import (
	"net/http"

	"servizo-backend/internal/chat"
)

type ChatHandler struct {
	hub *chat.Hub
}

func NewChatHandler(hub *chat.Hub) *ChatHandler { return &ChatHandler{hub: hub} }

// @Summary Lobby de chat (WebSocket)
// @Description Chat global de soporte. Eventos: user_join, chat_message, typing → user_list, user_joined, new_message, user_typing, user_left.
// @Tags chat
// @Success 101
// @Router /ws/chat [get]
func (h *ChatHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	h.hub.Serve(r.Context(), conn)
}
