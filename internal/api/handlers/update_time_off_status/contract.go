package update_time_off_status

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/timeoff/models"
)

type TimeOffService interface {
	UpdateStatus(ctx context.Context, id int64, req *models.UpdateTimeOffStatusRequest) (*models.TimeOffResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
