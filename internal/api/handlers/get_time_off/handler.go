package get_time_off

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	timeoffService "github.com/m04kA/SMC-ScheduleService/internal/service/timeoff"
	"github.com/m04kA/SMC-ScheduleService/internal/service/timeoff/models"
)

const (
	msgInvalidStaffID = "некорректный идентификатор сотрудника"
	msgInvalidPeriod  = "некорректный период, ожидается startDate и endDate в RFC3339"
	msgInvalidFilter  = "некорректные параметры фильтра"
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

// Handle GET /api/v1/staff/{staffId}/time-off
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(mux.Vars(r)["staffId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	req := &models.GetTimeOffRequest{StaffID: staffID}

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

	result, err := h.service.GetByStaff(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, timeoffService.ErrInvalidInput):
			h.logger.Warn("GET /time-off - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /time-off - Internal error: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
