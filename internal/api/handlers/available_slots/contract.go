package available_slots

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetAvailableSlots(ctx context.Context, companyID, staffID, serviceID int64, date string) (*models.AvailableSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
