package update_schedule_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	configService "github.com/m04kA/SMC-ScheduleService/internal/service/scheduleconfig"
	"github.com/m04kA/SMC-ScheduleService/internal/service/scheduleconfig/models"
)

const (
	msgInvalidCompanyID   = "некорректный идентификатор компании"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgCompanyNotFound    = "компания не найдена"
	msgAccessDenied       = "нет прав для изменения конфигурации компании"
	msgInvalidInput       = "некорректные значения конфигурации"
)

type Handler struct {
	service ScheduleConfigService
	logger  Logger
}

func NewHandler(service ScheduleConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/companies/{companyId}/config
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

	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /companies/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Update(r.Context(), companyID, &req)
	if err != nil {
		switch {
		case errors.Is(err, configService.ErrCompanyNotFound):
			h.logger.Warn("PUT /companies/{id}/config - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, configService.ErrAccessDenied):
			h.logger.Warn("PUT /companies/{id}/config - Access denied: company_id=%d, user_id=%d", companyID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, configService.ErrInvalidInput):
			h.logger.Warn("PUT /companies/{id}/config - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /companies/{id}/config - Internal error: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /companies/{id}/config - Updated config: company_id=%d, user_id=%d", companyID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
