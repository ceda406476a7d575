package main

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

/* ---------- Route: GET /api/predictions?match_id= ---------- */

func (c *catalogAPI) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	v := strings.TrimSpace(r.URL.Query().Get("match_id"))
	matchID, err := strconv.ParseUint(v, 10, 64)
	if err != nil || matchID == 0 {
		errorJSON(w, http.StatusBadRequest, "missing or invalid match_id")
		return
	}

	preds, err := c.predictions.ListByMatch(r.Context(), uint(matchID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": preds})
}

/* ---------- Route: POST /api/predictions (behind requireAuth) ---------- */

type predictionReq struct {
	MatchID        uint           `json:"match_id"`
	Market         string         `json:"market"`
	Prediction     *string        `json:"prediction"`
	Probability    *float64       `json:"probability"`
	ProbDetails    datatypes.JSON `json:"prob_details"`
	PredictedValue *float64       `json:"predicted_value"`
	ModelVersion   *string        `json:"model_version"`
	FeaturesUsed   datatypes.JSON `json:"features_used"`
}

// The ML pipeline calls this after inference; this service stores the row
// and never computes predictions itself.
func (c *catalogAPI) handleCreatePrediction(w http.ResponseWriter, r *http.Request) {
	var in predictionReq
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.MatchID == 0 || strings.TrimSpace(in.Market) == "" {
		errorJSON(w, http.StatusBadRequest, "match_id and market required")
		return
	}

	ctx := r.Context()
	if _, err := c.matches.Get(ctx, in.MatchID); err != nil {
		writeError(w, r, err)
		return
	}

	p := &Prediction{
		MatchID:        in.MatchID,
		Market:         strings.TrimSpace(in.Market),
		Prediction:     in.Prediction,
		Probability:    in.Probability,
		ProbDetails:    in.ProbDetails,
		PredictedValue: in.PredictedValue,
		ModelVersion:   in.ModelVersion,
		FeaturesUsed:   in.FeaturesUsed,
	}
	if err := c.predictions.Create(ctx, p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
