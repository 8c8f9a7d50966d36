package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// FeedbackHandler handles recommendation feedback submissions.
type FeedbackHandler struct {
	deps Dependencies
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(deps Dependencies) *FeedbackHandler {
	return &FeedbackHandler{deps: deps}
}

type feedbackAck struct {
	Status string `json:"status"`
}

// HandlePostFeedback handles POST /api/feedback requests.
func (h *FeedbackHandler) HandlePostFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_feedback"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var sub FeedbackSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateFeedback(sub); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.Feedback(r.Context(), sub); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "session_not_found", NewKind(op, ErrSessionNotFound))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusAccepted, feedbackAck{Status: "accepted"})
}

func validateFeedback(sub FeedbackSubmission) error {
	if strings.TrimSpace(sub.SessionID) == "" {
		return errors.New("missing session_id")
	}
	if sub.Rating < -1 || sub.Rating > 1 {
		return errors.New("rating must be within [-1, 1]")
	}
	return nil
}
