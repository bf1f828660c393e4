package find_conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
)

type AppointmentsService interface {
	FindConflicts(ctx context.Context, userID, companyID, staffID int64, start, end time.Time) (*models.ConflictsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
