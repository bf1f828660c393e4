package delete_time_off

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	timeoffService "github.com/m04kA/SMC-ScheduleService/internal/service/timeoff"
)

const (
	msgInvalidTimeOffID = "некорректный идентификатор time-off"
	msgUnauthorized     = "пользователь не аутентифицирован"
	msgTimeOffNotFound  = "time-off не найден"
	msgCompanyNotFound  = "компания не найдена"
	msgAccessDenied     = "нет прав для управления расписанием компании"
)

type Handler struct {
	service TimeOffService
	logger  Logger
}

func NewHandler(service TimeOffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/time-off/{timeOffId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	timeOffID, err := strconv.ParseInt(mux.Vars(r)["timeOffId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTimeOffID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), timeOffID, userID); err != nil {
		switch {
		case errors.Is(err, timeoffService.ErrTimeOffNotFound):
			h.logger.Warn("DELETE /time-off/{id} - Not found: time_off_id=%d", timeOffID)
			handlers.RespondNotFound(w, msgTimeOffNotFound)

		case errors.Is(err, timeoffService.ErrCompanyNotFound):
			h.logger.Warn("DELETE /time-off/{id} - Company not found: time_off_id=%d", timeOffID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, timeoffService.ErrAccessDenied):
			h.logger.Warn("DELETE /time-off/{id} - Access denied: time_off_id=%d, user_id=%d", timeOffID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("DELETE /time-off/{id} - Internal error: time_off_id=%d, error=%v", timeOffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /time-off/{id} - Deleted: time_off_id=%d, user_id=%d", timeOffID, userID)
	handlers.RespondNoContent(w)
}
