package create_time_off

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
	msgInvalidCompanyID   = "некорректный идентификатор компании"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgCompanyNotFound    = "компания не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgAccessDenied       = "нет прав для управления расписанием компании"
	msgInvalidInput       = "некорректные данные time-off"
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

// Handle POST /api/v1/companies/{companyId}/time-off
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(mux.Vars(r)["companyId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req models.CreateTimeOffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /time-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Create(r.Context(), companyID, &req)
	if err != nil {
		switch {
		case errors.Is(err, timeoffService.ErrCompanyNotFound):
			h.logger.Warn("POST /time-off - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, timeoffService.ErrStaffNotFound):
			h.logger.Warn("POST /time-off - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, timeoffService.ErrAccessDenied):
			h.logger.Warn("POST /time-off - Access denied: company_id=%d, user_id=%d", companyID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, timeoffService.ErrInvalidInput):
			h.logger.Warn("POST /time-off - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /time-off - Internal error: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /time-off - Created time off id=%d: staff_id=%d (%d affected appointments)",
		result.TimeOff.ID, req.StaffID, len(result.AffectedAppointments))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
