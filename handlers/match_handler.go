package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/services"
)

type resultRecorder interface {
	RecordResult(ctx context.Context, matchID int, input services.ResultInput) (*services.RecordResultOutput, error)
}

type standingsService interface {
	ComputeStandings(ctx context.Context, groupID int) ([]models.TeamStats, error)
}

type MatchHandler struct {
	matchService     resultRecorder
	standingsService standingsService
}

func NewMatchHandler(ms resultRecorder, ss standingsService) *MatchHandler {
	return &MatchHandler{matchService: ms, standingsService: ss}
}

// RecordResult godoc
// @Summary Записать или исправить результат матча
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body services.ResultInput true "Счет"
// @Success 200 {object} services.RecordResultOutput "Матч, статистика команд и изменения сетки"
// @Failure 400 {object} map[string]string "Некорректный результат"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Зависимый матч уже сыгран"
// @Security BearerAuth
// @Router /matches/{matchID}/result [put]
func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.ResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.matchService.RecordResult(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": out}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGroupStandings godoc
// @Summary Таблица группы
// @Tags matches
// @Produce json
// @Param groupID path int true "Group ID"
// @Success 200 {object} map[string]interface{} "Таблица"
// @Failure 404 {object} map[string]string "Группа не найдена"
// @Router /groups/{groupID}/standings [get]
func (h *MatchHandler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.ComputeStandings(r.Context(), groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
