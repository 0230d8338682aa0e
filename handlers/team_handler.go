package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/services"
)

type teamService interface {
	CreateTeam(ctx context.Context, input services.CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
}

type TeamHandler struct {
	teamService teamService
}

func NewTeamHandler(ts teamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// CreateTeam godoc
// @Summary Создать команду
// @Tags teams
// @Accept json
// @Produce json
// @Param body body services.CreateTeamInput true "Название и вид спорта"
// @Success 201 {object} map[string]interface{} "Команда создана"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 409 {object} map[string]string "Имя уже занято"
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeamByID godoc
// @Summary Получить команду с агрегированной статистикой
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{} "Команда найдена"
// @Failure 404 {object} map[string]string "Команда не найдена"
// @Router /teams/{teamID} [get]
func (h *TeamHandler) GetTeamByID(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
