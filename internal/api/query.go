package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tablechat/tablechat/internal/observability"
	"github.com/tablechat/tablechat/internal/translator"
)

type queryRequest struct {
	SQL string `json:"sql"`
}

type queryResponse struct {
	Success bool             `json:"success"`
	Data    []map[string]any `json:"data"`
	Count   int64            `json:"count"`
}

// handleQuery runs a statement through the same pipeline the chat
// endpoint uses, without the language model. The text is still treated as
// untrusted.
func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", "sql is required", false, nil)
		return
	}

	result, err := deps.Runner.Run(r.Context(), req.SQL)
	if err != nil {
		var terr *translator.Error
		if errors.As(err, &terr) {
			observability.ObserveStatement(string(terr.Code))
			status, retryable := statusForCode(terr.Code)
			writeError(r.Context(), w, status, strings.ToUpper(string(terr.Code)), terr.Message, retryable, nil)
			return
		}
		observability.ObserveStatement("internal")
		writeError(r.Context(), w, http.StatusInternalServerError, "INTERNAL", "query failed", true, nil)
		return
	}
	observability.ObserveStatement("ok")
	if result.CountOnly {
		observability.ObserveStoreQuery("count")
	} else {
		observability.ObserveStoreQuery("select")
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Success: true,
		Data:    clampRows(result.Rows, deps.MaxRows),
		Count:   result.Count,
	})
}

func statusForCode(code translator.Code) (int, bool) {
	switch code {
	case translator.CodeUnsafe, translator.CodeParse:
		return http.StatusBadRequest, false
	case translator.CodeUnsupported:
		return http.StatusUnprocessableEntity, false
	case translator.CodeUnknownTable, translator.CodeUnknownColumn:
		return http.StatusNotFound, false
	case translator.CodeStore:
		return http.StatusBadGateway, true
	default:
		return http.StatusInternalServerError, true
	}
}
