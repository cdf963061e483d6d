package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"dicewager/ledger"
	"dicewager/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	kindBadRequest = "BadRequest"
	kindInternal   = "Internal"
)

type errorBody struct {
	Kind      string           `json:"kind"`
	Message   string           `json:"message"`
	Shortfall *decimal.Decimal `json:"shortfall,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type challengeView struct {
	ID        string          `json:"id"`
	ShortID   string          `json:"shortId"`
	Amount    decimal.Decimal `json:"amount"`
	CreatorID string          `json:"creatorId"`
}

type ledgerView struct {
	Balance        decimal.Decimal `json:"balance"`
	FeesCollected  decimal.Decimal `json:"feesCollected"`
	Escrowed       decimal.Decimal `json:"escrowed"`
	OpenChallenges []challengeView `json:"openChallenges"`
}

type createResponse struct {
	Challenges []challengeView `json:"challenges"`
	TotalCost  decimal.Decimal `json:"totalCost"`
}

type costResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Count     int             `json:"count"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

type acceptResponse struct {
	Result  models.SettlementResult `json:"result"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
}

func newChallengeViews(challenges []models.Challenge) []challengeView {
	views := make([]challengeView, 0, len(challenges))
	for _, c := range challenges {
		views = append(views, challengeView{
			ID:        c.ID,
			ShortID:   c.ShortID(),
			Amount:    c.Amount,
			CreatorID: c.CreatorID,
		})
	}
	return views
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to write HTTP response")
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{Kind: kindBadRequest, Message: message}})
}

// writeError maps ledger rejections to client errors and hides everything else
func writeError(w http.ResponseWriter, err error) {
	var ledgerErr *ledger.Error
	if !errors.As(err, &ledgerErr) {
		log.WithError(err).Error("Ledger operation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{Kind: kindInternal, Message: "internal error"}})
		return
	}

	body := errorBody{Kind: string(ledgerErr.Kind), Message: ledgerErr.Message}
	status := http.StatusBadRequest
	switch ledgerErr.Kind {
	case ledger.KindInsufficientFunds:
		status = http.StatusUnprocessableEntity
		shortfall := ledgerErr.Shortfall
		body.Shortfall = &shortfall
	case ledger.KindChallengeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: body})
}
