package cancel_waitlist_entry

import (
	"errors"
	"net/http"

	"github.com/m04kA/EffiQ-BookingService/internal/api/handlers"
	"github.com/m04kA/EffiQ-BookingService/internal/api/middleware"
	"github.com/m04kA/EffiQ-BookingService/internal/service/allocation"
)

const (
	msgInvalidEntryID = "invalid waitlist entry id"
	msgMissingUserID  = "missing user id"
	msgNotFound       = "waitlist entry not found"
	msgForbidden      = "access denied"
)

type Handler struct {
	engine AllocationEngine
	logger Logger
}

func NewHandler(engine AllocationEngine, logger Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// Handle DELETE /api/v1/waitlist/{entryId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID, err := handlers.PathInt64(r, "entryId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.engine.CancelWait(r.Context(), entryID, allocation.Actor{
		UserID: userID,
		Admin:  middleware.IsAdmin(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, allocation.ErrEntryNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, allocation.ErrAccessDenied):
			h.logger.Warn("DELETE /waitlist/{id} - Access denied: entry_id=%d, user_id=%d", entryID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /waitlist/{id} - Failed to leave waitlist: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /waitlist/{id} - Entry removed: entry_id=%d, user_id=%d", entryID, userID)
	w.WriteHeader(http.StatusNoContent)
}
