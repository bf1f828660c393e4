package update_time_off_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	timeoffService "github.com/m04kA/SMC-ScheduleService/internal/service/timeoff"
	"github.com/m04kA/SMC-ScheduleService/internal/service/timeoff/models"
)

const (
	msgInvalidTimeOffID   = "некорректный идентификатор time-off"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgTimeOffNotFound    = "time-off не найден"
	msgCompanyNotFound    = "компания не найдена"
	msgAccessDenied       = "нет прав для управления расписанием компании"
	msgInvalidStatus      = "недопустимый статус time-off"
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

// Handle PATCH /api/v1/time-off/{timeOffId}/status
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

	var req models.UpdateTimeOffStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /time-off/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.UpdateStatus(r.Context(), timeOffID, &req)
	if err != nil {
		switch {
		case errors.Is(err, timeoffService.ErrTimeOffNotFound):
			h.logger.Warn("PATCH /time-off/{id}/status - Not found: time_off_id=%d", timeOffID)
			handlers.RespondNotFound(w, msgTimeOffNotFound)

		case errors.Is(err, timeoffService.ErrCompanyNotFound):
			h.logger.Warn("PATCH /time-off/{id}/status - Company not found: time_off_id=%d", timeOffID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, timeoffService.ErrAccessDenied):
			h.logger.Warn("PATCH /time-off/{id}/status - Access denied: time_off_id=%d, user_id=%d",
				timeOffID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, timeoffService.ErrInvalidStatus):
			h.logger.Warn("PATCH /time-off/{id}/status - Invalid status %q: time_off_id=%d", req.Status, timeOffID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("PATCH /time-off/{id}/status - Internal error: time_off_id=%d, error=%v", timeOffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /time-off/{id}/status - Updated: time_off_id=%d, status=%s", timeOffID, req.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
