package get_staff_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	appointmentsService "github.com/m04kA/SMC-ScheduleService/internal/service/appointments"
	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
)

const (
	msgInvalidCompanyID = "некорректный идентификатор компании"
	msgInvalidStaffID   = "некорректный идентификатор сотрудника"
	msgInvalidPeriod    = "некорректный период, ожидается startDate и endDate в RFC3339"
	msgUnauthorized     = "пользователь не аутентифицирован"
	msgCompanyNotFound  = "компания не найдена"
	msgAccessDenied     = "нет прав для просмотра записей компании"
	msgInvalidFilter    = "некорректные параметры фильтра"
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

// Handle GET /api/v1/companies/{companyId}/staff/{staffId}/appointments
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

	req := &models.GetStaffAppointmentsRequest{
		UserID:    userID,
		CompanyID: companyID,
		StaffID:   staffID,
	}

	query := r.URL.Query()
	if s := query.Get("startDate"); s != "" {
		start, err := time.Parse(time.RFC3339, s)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.StartDate = &start
	}
	if s := query.Get("endDate"); s != "" {
		end, err := time.Parse(time.RFC3339, s)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.EndDate = &end
	}
	if s := query.Get("status"); s != "" {
		req.Status = &s
	}
	if query.Get("includeInactive") == "true" {
		req.IncludeInactive = true
	}

	result, err := h.service.GetByStaff(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrCompanyNotFound):
			h.logger.Warn("GET /staff/{id}/appointments - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, appointmentsService.ErrAccessDenied):
			h.logger.Warn("GET /staff/{id}/appointments - Access denied: company_id=%d, user_id=%d", companyID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/appointments - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /staff/{id}/appointments - Internal error: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/appointments - Returned %d appointments: staff_id=%d",
		len(result.Appointments), staffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
