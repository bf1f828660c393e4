package find_conflicts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	appointmentsService "github.com/m04kA/SMC-ScheduleService/internal/service/appointments"
	findConflicts "github.com/m04kA/SMC-ScheduleService/internal/usecase/find_conflicts"
)

const (
	msgInvalidCompanyID = "некорректный идентификатор компании"
	msgInvalidStaffID   = "некорректный идентификатор сотрудника"
	msgInvalidInterval  = "некорректный интервал, ожидается start и end в RFC3339"
	msgUnauthorized     = "пользователь не аутентифицирован"
	msgCompanyNotFound  = "компания не найдена"
	msgAccessDenied     = "нет прав для проверки расписания компании"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/staff/{staffId}/conflicts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}
	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	query := r.URL.Query()
	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}
	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	result, err := h.service.FindConflicts(r.Context(), userID, companyID, staffID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrCompanyNotFound):
			h.logger.Warn("GET /conflicts - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, appointmentsService.ErrAccessDenied):
			h.logger.Warn("GET /conflicts - Access denied: company_id=%d, user_id=%d", companyID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, findConflicts.ErrInvalidInterval), errors.Is(err, findConflicts.ErrInvalidInput):
			h.logger.Warn("GET /conflicts - Invalid interval: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("GET /conflicts - Internal error: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /conflicts - Found %d conflicts: staff_id=%d", len(result.Conflicts), staffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
