package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Response is the body of every error reply.
type Response struct {
	Detail string `json:"detail"`
}

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil || status == http.StatusNoContent {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("can't encode response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, status int, detail string) {
	RespondWithJSON(w, status, Response{Detail: detail})
}
