package server

import (
	"encoding/json"
	"net/http"

	"calchat/internal/auth"
	"calchat/internal/chat"
)

// handleChatTurn runs one dialogue turn: decode the message plus whatever
// pending context the client echoed back, dispatch, and return the reply with
// at most one new pending context.
func (s *Server) handleChatTurn(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	gateway, err := s.gatewayForUser(r, user.ID)
	if err != nil {
		s.logger.Error("chat turn: gateway unavailable", "user_id", user.ID, "error", err)
		respondJSON(w, http.StatusOK, chat.TurnResponse{
			Reply: "❌ Your Google Calendar is not connected. Please sign in again to reconnect it.",
		})
		return
	}

	dispatcher := chat.NewDispatcher(chat.Config{
		Gateway:        gateway,
		Extractor:      s.extractor,
		Timezone:       s.timezone,
		Location:       s.location,
		Logger:         s.logger,
		ListPageSize:   s.listPageSize,
		CancelPageSize: s.cancelPageSize,
	})

	resp := dispatcher.HandleTurn(r.Context(), req)
	respondJSON(w, http.StatusOK, resp)
}
