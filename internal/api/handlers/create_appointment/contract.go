package create_appointment

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
)

type AppointmentsService interface {
	Create(ctx context.Context, companyID, customerID int64, req *models.CreateAppointmentRequest) (*models.CreateAppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
