package create_time_off

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/timeoff/models"
)

type TimeOffService interface {
	Create(ctx context.Context, companyID int64, req *models.CreateTimeOffRequest) (*models.CreateTimeOffResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
