package shared

import (
	"log/slog"
	"net/http"

	"schooloffice/internal/domain/audit"
	"schooloffice/internal/transport/http/middleware"
)

// Audit records a mutation for the current caller. Failures are logged and
// never fail the request.
func Audit(r *http.Request, recorder audit.Recorder, action, entityType, entityID string, before, after any) {
	if recorder == nil {
		return
	}
	var actorID string
	if user, ok := middleware.GetUser(r.Context()); ok {
		actorID = user.UserID
	}
	err := recorder.Record(r.Context(), actorID, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), middleware.ClientIP(r), before, after)
	if err != nil {
		slog.Warn("audit write failed", "action", action, "entityType", entityType, "entityId", entityID, "err", err)
	}
}
