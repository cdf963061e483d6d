package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type createRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Count  *int             `json:"count"`
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetLedger(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ledgerView{
		Balance:        state.Balance,
		FeesCollected:  state.FeesCollected,
		Escrowed:       state.Escrowed(),
		OpenChallenges: newChallengeViews(state.OpenChallenges),
	})
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := s.service.ListOpenChallenges(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"challenges": newChallengeViews(challenges)})
}

func (s *Server) handleCreateChallenges(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeBadRequest(w, "request body must be JSON with amount and count")
		return
	}
	if req.Amount == nil || req.Count == nil {
		writeBadRequest(w, "amount and count are required")
		return
	}

	created, err := s.service.CreateChallenges(r.Context(), *req.Amount, *req.Count)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{
		Challenges: newChallengeViews(created),
		TotalCost:  s.service.CreationCost(*req.Amount, *req.Count),
	})
}

func (s *Server) handleCreationCost(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	amount, err := decimal.NewFromString(query.Get("amount"))
	if err != nil {
		writeBadRequest(w, "amount must be a number")
		return
	}
	count, err := strconv.Atoi(query.Get("count"))
	if err != nil {
		writeBadRequest(w, "count must be an integer")
		return
	}

	writeJSON(w, http.StatusOK, costResponse{
		Amount:    amount,
		Count:     count,
		TotalCost: s.service.CreationCost(amount, count),
	})
}

func (s *Server) handleAcceptChallenge(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := s.service.AcceptChallenge(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	title, message := result.Summary()
	writeJSON(w, http.StatusOK, acceptResponse{
		Result:  *result,
		Title:   title,
		Message: message,
	})
}
