package handlers

import (
	"net/http"

	"github.com/leaguedesk/leaguedesk/services"
)

type MatchHandler struct {
	tournamentService services.TournamentService
}

func NewMatchHandler(tournamentService services.TournamentService) *MatchHandler {
	return &MatchHandler{tournamentService: tournamentService}
}

// RecordResultHandler stores the scores for a pair in the caller's
// viewpoint order: score_a belongs to {p1}, score_b to {p2}. Null scores
// mark a partially entered result.
func (h *MatchHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	p1, err := getURLParam(r, "p1")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	p2, err := getURLParam(r, "p2")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		ScoreA *float64 `json:"score_a"`
		ScoreB *float64 `json:"score_b"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.RecordResult(r.Context(), tournamentID, p1, p2, input.ScoreA, input.ScoreB)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ClearResultHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	p1, err := getURLParam(r, "p1")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	p2, err := getURLParam(r, "p2")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.ClearResult(r.Context(), tournamentID, p1, p2)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
