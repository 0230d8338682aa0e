package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/services"
)

type tournamentService interface {
	CreateTournament(ctx context.Context, input services.CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error)
	RegisterTeam(ctx context.Context, tournamentID, teamID int) (*models.Tournament, error)
	PreviewDraw(ctx context.Context, tournamentID int, input services.DrawInput) (*models.DrawProposal, error)
	CommitDraw(ctx context.Context, tournamentID int, proposal *models.DrawProposal) (*models.Tournament, error)
}

type bracketService interface {
	PromoteToKnockout(ctx context.Context, tournamentID int) ([]*models.Match, error)
	GetBracket(ctx context.Context, tournamentID int) (*services.BracketView, error)
}

type matchLister interface {
	ListMatches(ctx context.Context, tournamentID int, phase string) ([]*models.Match, error)
}

type TournamentHandler struct {
	tournamentService tournamentService
	bracketService    bracketService
	matchService      matchLister
}

func NewTournamentHandler(ts tournamentService, bs bracketService, ms matchLister) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		bracketService:    bs,
		matchService:      ms,
	}
}

type registerTeamInput struct {
	TeamID int `json:"team_id"`
}

// CreateTournament godoc
// @Summary Создать турнир
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body services.CreateTournamentInput true "Название, вид спорта, формат и настройки групп"
// @Success 201 {object} map[string]interface{} "Турнир создан"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTournaments godoc
// @Summary Список турниров
// @Tags tournaments
// @Produce json
// @Param sport query string false "Вид спорта"
// @Param status query string false "Статус (pending, drawn, in_progress, completed)"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]interface{} "Список турниров"
// @Router /tournaments [get]
func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTournamentFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseTournamentFilter(r *http.Request) (repositories.ListTournamentsFilter, error) {
	var filter repositories.ListTournamentsFilter
	q := r.URL.Query()

	if sport := q.Get("sport"); sport != "" {
		filter.Sport = &sport
	}
	if status := q.Get("status"); status != "" {
		s := models.TournamentStatus(status)
		switch s {
		case models.StatusPending, models.StatusDrawn, models.StatusInProgress, models.StatusCompleted:
			filter.Status = &s
		default:
			return filter, fmt.Errorf("invalid status filter %q", status)
		}
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, fmt.Errorf("invalid %s parameter %q", name, raw)
		}
		*dst = v
	}
	return filter, nil
}

// GetTournamentByID godoc
// @Summary Получить турнир
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Турнир найден"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetTournamentByID(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisterTeam godoc
// @Summary Зарегистрировать команду в турнире
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body registerTeamInput true "ID команды"
// @Success 200 {object} map[string]interface{} "Команда зарегистрирована"
// @Failure 400 {object} map[string]string "Другой вид спорта"
// @Failure 409 {object} map[string]string "Регистрация закрыта или команда уже зарегистрирована"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TournamentHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input registerTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamID <= 0 {
		badRequestResponse(w, r, errors.New("team_id is required"))
		return
	}

	tournament, err := h.tournamentService.RegisterTeam(r.Context(), tournamentID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PreviewDraw godoc
// @Summary Предпросмотр жеребьевки
// @Tags draw
// @Description Генерирует предложение жеребьевки без сохранения. С тем же seed результат повторяется.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body services.DrawInput false "Количество групп, ручное распределение, seed"
// @Success 200 {object} map[string]interface{} "Предложение жеребьевки"
// @Failure 400 {object} map[string]string "Некорректная конфигурация"
// @Failure 409 {object} map[string]string "Жеребьевка уже проведена"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/draw/preview [post]
func (h *TournamentHandler) PreviewDraw(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.DrawInput
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	proposal, err := h.tournamentService.PreviewDraw(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"proposal": proposal}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CommitDraw godoc
// @Summary Зафиксировать жеребьевку
// @Tags draw
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body models.DrawProposal true "Предложение, полученное из предпросмотра"
// @Success 201 {object} map[string]interface{} "Жеребьевка сохранена"
// @Failure 409 {object} map[string]string "Повторная фиксация или несовпадение предложения"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/draw/commit [post]
func (h *TournamentHandler) CommitDraw(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var proposal models.DrawProposal
	if err := readJSON(w, r, &proposal); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CommitDraw(r.Context(), tournamentID, &proposal)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PromoteToKnockout godoc
// @Summary Перевести турнир в плей-офф
// @Tags draw
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 201 {object} map[string]interface{} "Матчи первого раунда плей-офф"
// @Failure 409 {object} map[string]string "Групповой этап не завершен"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/promote [post]
func (h *TournamentHandler) PromoteToKnockout(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.PromoteToKnockout(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary Матчи турнира
// @Tags matches
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param phase query string false "Каноническая фаза: GROUPS, FINAL, SEMIFINAL, QUARTERFINAL, ROUND_OF_16..."
// @Success 200 {object} map[string]interface{} "Список матчей"
// @Failure 400 {object} map[string]string "Неизвестная фаза"
// @Router /tournaments/{tournamentID}/matches [get]
func (h *TournamentHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), tournamentID, r.URL.Query().Get("phase"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracket godoc
// @Summary Сетка турнира
// @Tags matches
// @Description Группы с таблицами и раунды плей-офф с названиями.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Сетка"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *TournamentHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.GetBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
