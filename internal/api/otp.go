package api

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"regexp"
	"strings"

	"github.com/tablechat/tablechat/internal/config"
	"github.com/tablechat/tablechat/internal/observability"
)

type otpRequest struct {
	Phone string `json:"phone"`
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// handleOTPCall generates a one-time code and places a voice call that
// reads it out. The code is echoed back only outside prod so automated
// tests can assert the flow.
func handleOTPCall(cfg config.Config, deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Voice == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VOICE_NOT_CONFIGURED", "voice calling is not configured", false, nil)
		return
	}

	var req otpRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid otp request body", false, map[string]any{"details": err.Error()})
		return
	}
	phone := strings.ReplaceAll(strings.TrimSpace(req.Phone), " ", "")
	if !phonePattern.MatchString(phone) {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_PHONE", "phone must be digits with an optional leading +", false, nil)
		return
	}

	code, err := generateCode()
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "CODE_GENERATION_FAILED", "could not generate a code", true, nil)
		return
	}

	if err := deps.Voice.Call(r.Context(), phone, code); err != nil {
		if deps.Logger != nil {
			deps.Logger.ErrorContext(r.Context(), "otp call failed", slog.String("error", err.Error()))
		}
		writeError(r.Context(), w, http.StatusBadGateway, "CALL_FAILED", "could not place the call", true, errDetails(cfg, err))
		return
	}
	observability.IncrementOTPCall()

	response := map[string]any{"status": "calling", "phone": phone}
	if cfg.Profile != config.ProfileProd {
		response["code"] = code
	}
	writeJSON(w, http.StatusOK, response)
}

// generateCode draws six digits from crypto/rand. Leading zeros are kept.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
