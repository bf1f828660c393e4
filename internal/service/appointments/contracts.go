package appointments

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/find_conflicts"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByCustomer(ctx context.Context, filter domain.CustomerAppointmentsFilter) ([]*domain.Appointment, error)
	GetByStaffWithFilter(ctx context.Context, filter domain.StaffAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason string) error
}

// CreateUseCase интерфейс оркестратора создания записи
type CreateUseCase interface {
	Execute(ctx context.Context, req create_appointment.Request) (*create_appointment.Response, error)
}

// SlotsUseCase интерфейс калькулятора доступных слотов
type SlotsUseCase interface {
	Execute(ctx context.Context, req get_available_slots.Request) (*get_available_slots.Response, error)
}

// ConflictsUseCase интерфейс детектора коллизий
type ConflictsUseCase interface {
	Execute(ctx context.Context, req find_conflicts.Request) (*find_conflicts.Response, error)
}

// CompanyServiceClient интерфейс клиента для CompanyService
type CompanyServiceClient interface {
	GetCompany(ctx context.Context, companyID int64) (*companyservice.Company, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
