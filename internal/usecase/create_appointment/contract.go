package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/userservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// Create вставляет запись; при занятом интервале возвращает
	// appointment.ErrSlotUnavailable
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)

	// GetByStaffWithFilter получает записи мастера, пересекающиеся с периодом
	GetByStaffWithFilter(ctx context.Context, filter domain.StaffAppointmentsFilter) ([]*domain.Appointment, error)
}

// AvailabilityRepository интерфейс репозитория правил еженедельной доступности
type AvailabilityRepository interface {
	GetByStaffAndWeekday(ctx context.Context, staffID int64, weekday time.Weekday) ([]*domain.AvailabilityRule, error)
}

// TimeOffRepository интерфейс репозитория time-off интервалов
type TimeOffRepository interface {
	GetWithFilter(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error)
}

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	GetByCompany(ctx context.Context, companyID int64) (*domain.ScheduleConfig, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	// DoSerializable выполняет fn в SERIALIZABLE транзакции с повторами
	// при конфликте сериализации
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// CompanyServiceClient интерфейс клиента для CompanyService
type CompanyServiceClient interface {
	GetCompany(ctx context.Context, companyID int64) (*companyservice.Company, error)
	GetService(ctx context.Context, companyID, serviceID int64) (*companyservice.Service, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	// GetCustomerWithGracefulDegradation возвращает ErrServiceDegraded при
	// недоступности сервиса - запись создается без имени клиента
	GetCustomerWithGracefulDegradation(ctx context.Context, customerID int64) (*userservice.Customer, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
