package delete_availability_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	availabilityService "github.com/m04kA/SMC-ScheduleService/internal/service/availability"
)

const (
	msgInvalidRuleID   = "некорректный идентификатор правила"
	msgUnauthorized    = "пользователь не аутентифицирован"
	msgRuleNotFound    = "правило не найдено"
	msgCompanyNotFound = "компания не найдена"
	msgAccessDenied    = "нет прав для управления расписанием компании"
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

// Handle DELETE /api/v1/availability-rules/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ruleID, err := strconv.ParseInt(mux.Vars(r)["ruleId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), ruleID, userID); err != nil {
		switch {
		case errors.Is(err, availabilityService.ErrRuleNotFound):
			h.logger.Warn("DELETE /availability-rules/{id} - Not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)

		case errors.Is(err, availabilityService.ErrCompanyNotFound):
			h.logger.Warn("DELETE /availability-rules/{id} - Company not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, availabilityService.ErrAccessDenied):
			h.logger.Warn("DELETE /availability-rules/{id} - Access denied: rule_id=%d, user_id=%d", ruleID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("DELETE /availability-rules/{id} - Internal error: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability-rules/{id} - Deleted: rule_id=%d, user_id=%d", ruleID, userID)
	handlers.RespondNoContent(w)
}
