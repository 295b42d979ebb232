package handlers

import (
	"net/http"

	"github.com/leaguedesk/leaguedesk/services"
)

type ParticipantHandler struct {
	tournamentService services.TournamentService
}

func NewParticipantHandler(tournamentService services.TournamentService) *ParticipantHandler {
	return &ParticipantHandler{tournamentService: tournamentService}
}

func (h *ParticipantHandler) AddParticipantHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.tournamentService.AddParticipant(r.Context(), tournamentID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// duplicate_name is a flag, not an error: ids are the uniqueness key.
	env := jsonResponse{
		"participant":    result.Participant,
		"duplicate_name": result.DuplicateName,
		"tournament":     result.Tournament,
	}
	if err := writeJSON(w, http.StatusCreated, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipantHandler) RemoveParticipantHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := getURLParam(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.RemoveParticipant(r.Context(), tournamentID, participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
