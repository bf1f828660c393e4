package get_time_off

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/timeoff/models"
)

type TimeOffService interface {
	GetByStaff(ctx context.Context, req *models.GetTimeOffRequest) (*models.TimeOffListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
