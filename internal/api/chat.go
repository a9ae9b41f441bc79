package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tablechat/tablechat/internal/config"
	"github.com/tablechat/tablechat/internal/nl2sql"
	"github.com/tablechat/tablechat/internal/observability"
	"github.com/tablechat/tablechat/internal/translator"
)

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string           `json:"answer"`
	SQL    string           `json:"sql,omitempty"`
	Data   []map[string]any `json:"data"`
	Count  int64            `json:"count"`
	Cached bool             `json:"cached"`
	Error  *chatError       `json:"error,omitempty"`
}

type chatError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

const apologyAnswer = "Sorry, I could not answer that question. Try asking about the products in a different way."

func handleChat(cfg config.Config, deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Translator == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "CHAT_NOT_CONFIGURED", "language model translation is not configured", false, nil)
		return
	}
	start := time.Now()
	defer func() { observability.ObserveChatLatency(time.Since(start)) }()

	var req chatRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid chat request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	translation, err := deps.Translator.Translate(r.Context(), nl2sql.Request{
		Question: req.Question,
		Tables:   deps.Catalog.Tables(),
	})
	if err != nil {
		writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATE_FAILED", "failed to translate question", true, errDetails(cfg, err))
		return
	}
	if translation.Cached {
		observability.ObserveTranslation("cache")
	} else {
		observability.ObserveTranslation("model")
	}

	result, err := deps.Runner.Run(r.Context(), translation.SQL)
	if err != nil {
		var terr *translator.Error
		if errors.As(err, &terr) {
			observability.ObserveStatement(string(terr.Code))
		} else {
			observability.ObserveStatement("internal")
		}
		if deps.Logger != nil {
			deps.Logger.WarnContext(r.Context(), "chat statement rejected",
				slog.String("error", err.Error()),
				slog.Bool("cached", translation.Cached),
			)
		}
		// The user asked a question, not for an error page; answer
		// apologetically and keep the failure detail out of prod
		// responses.
		writeJSON(w, http.StatusOK, chatResponse{
			Answer: apologyAnswer,
			SQL:    translation.SQL,
			Data:   []map[string]any{},
			Cached: translation.Cached,
			Error:  chatErrorFrom(cfg, err),
		})
		return
	}
	observability.ObserveStatement("ok")
	if result.CountOnly {
		observability.ObserveStoreQuery("count")
	} else {
		observability.ObserveStoreQuery("select")
	}

	rows := clampRows(result.Rows, deps.MaxRows)
	writeJSON(w, http.StatusOK, chatResponse{
		Answer: answerFor(cfg, deps, r, req.Question, rows, result),
		SQL:    translation.SQL,
		Data:   rows,
		Count:  result.Count,
		Cached: translation.Cached,
	})
}

// answerFor asks the explainer model to phrase the result; when no
// explainer is configured, it falls back to a mechanical summary.
func answerFor(cfg config.Config, deps Dependencies, r *http.Request, question string, rows []map[string]any, result translator.Result) string {
	if deps.Explainer != nil {
		answer, err := deps.Explainer.Explain(r.Context(), question, rows, result.Count)
		if err == nil {
			return answer
		}
		if deps.Logger != nil {
			deps.Logger.WarnContext(r.Context(), "explain failed", slog.String("error", err.Error()))
		}
	}
	if result.CountOnly {
		return fmt.Sprintf("I counted %d matching items.", result.Count)
	}
	if result.Count == 0 {
		return "I did not find any matching items."
	}
	return fmt.Sprintf("I found %d matching items.", result.Count)
}

func clampRows(rows []map[string]any, maxRows int) []map[string]any {
	if rows == nil {
		return []map[string]any{}
	}
	if maxRows > 0 && len(rows) > maxRows {
		return rows[:maxRows]
	}
	return rows
}

func chatErrorFrom(cfg config.Config, err error) *chatError {
	var terr *translator.Error
	if !errors.As(err, &terr) {
		return &chatError{Code: "internal"}
	}
	ce := &chatError{Code: string(terr.Code)}
	if cfg.Profile != config.ProfileProd {
		ce.Message = terr.Message
	}
	return ce
}

func errDetails(cfg config.Config, err error) map[string]any {
	if cfg.Profile == config.ProfileProd {
		return nil
	}
	return map[string]any{"details": err.Error()}
}
