package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/gorilla/websocket"
)

type tournamentGetter interface {
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
}

type WebSocketHandler struct {
	hub               *brackets.Hub
	tournamentService tournamentGetter
	upgrader          websocket.Upgrader
	logger            *slog.Logger
}

// NewWebSocketHandler accepts connections from the given origins; "*" allows any.
func NewWebSocketHandler(hub *brackets.Hub, ts tournamentGetter, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		logger:            logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs подписывает клиента на события турнира.
// Клиент должен подключаться к /ws/tournaments/{tournamentID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.tournamentService.GetTournament(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	client := h.hub.NewClient(conn, brackets.TournamentRoom(tournamentID))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	h.logger.DebugContext(r.Context(), "websocket client subscribed", slog.String("room", client.Room))
}
