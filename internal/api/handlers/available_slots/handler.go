package available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	appointmentsService "github.com/m04kA/SMC-ScheduleService/internal/service/appointments"
	getAvailableSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
)

const (
	msgInvalidCompanyID = "некорректный идентификатор компании"
	msgInvalidStaffID   = "некорректный идентификатор сотрудника"
	msgInvalidServiceID = "некорректный идентификатор услуги"
	msgMissingDate      = "не указана дата, ожидается date=YYYY-MM-DD"
	msgCompanyNotFound  = "компания не найдена"
	msgStaffNotFound    = "сотрудник не найден"
	msgStaffInactive    = "сотрудник не принимает записи"
	msgServiceNotFound  = "услуга не найдена"
	msgServiceInactive  = "услуга недоступна"
	msgInvalidDate      = "некорректная дата"
	msgDateTooFar       = "дата слишком далеко в будущем"
	msgInvalidTimezone  = "некорректная таймзона компании"
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

// Handle GET /api/v1/companies/{companyId}/staff/{staffId}/available-slots
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
	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.service.GetAvailableSlots(r.Context(), companyID, staffID, serviceID, date)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrCompanyNotFound):
			h.logger.Warn("GET /available-slots - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /available-slots - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffInactive):
			h.logger.Warn("GET /available-slots - Staff inactive: staff_id=%d", staffID)
			handlers.RespondError(w, http.StatusConflict, msgStaffInactive)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /available-slots - Service inactive: service_id=%d", serviceID)
			handlers.RespondError(w, http.StatusConflict, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate),
			errors.Is(err, getAvailableSlots.ErrInvalidInput),
			errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /available-slots - Date too far: date=%s", date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidTimezone):
			h.logger.Error("GET /available-slots - Invalid timezone: company_id=%d", companyID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidTimezone)

		default:
			h.logger.Error("GET /available-slots - Internal error: company_id=%d, staff_id=%d, error=%v",
				companyID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Returned %d slots: company_id=%d, staff_id=%d, date=%s",
		len(result.Slots), companyID, staffID, date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
