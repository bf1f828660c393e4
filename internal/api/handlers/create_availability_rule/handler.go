package create_availability_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	availabilityService "github.com/m04kA/SMC-ScheduleService/internal/service/availability"
	"github.com/m04kA/SMC-ScheduleService/internal/service/availability/models"
)

const (
	msgInvalidCompanyID   = "некорректный идентификатор компании"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgCompanyNotFound    = "компания не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgAccessDenied       = "нет прав для управления расписанием компании"
	msgRulesOverlap       = "окно пересекается с существующим правилом"
	msgInvalidInput       = "некорректные данные правила"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/companies/{companyId}/availability-rules
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

	var req models.CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Create(r.Context(), companyID, &req)
	if err != nil {
		switch {
		case errors.Is(err, availabilityService.ErrCompanyNotFound):
			h.logger.Warn("POST /availability-rules - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, availabilityService.ErrStaffNotFound):
			h.logger.Warn("POST /availability-rules - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, availabilityService.ErrAccessDenied):
			h.logger.Warn("POST /availability-rules - Access denied: company_id=%d, user_id=%d", companyID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, availabilityService.ErrRulesOverlap):
			h.logger.Warn("POST /availability-rules - Rules overlap: staff_id=%d, weekday=%d", req.StaffID, req.Weekday)
			handlers.RespondError(w, http.StatusConflict, msgRulesOverlap)

		case errors.Is(err, availabilityService.ErrInvalidInput):
			h.logger.Warn("POST /availability-rules - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /availability-rules - Internal error: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability-rules - Created rule id=%d: staff_id=%d, weekday=%d",
		result.ID, req.StaffID, req.Weekday)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
