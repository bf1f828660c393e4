package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
)

// AvailabilityRepository интерфейс репозитория правил еженедельной доступности
type AvailabilityRepository interface {
	Create(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error)
	GetByStaff(ctx context.Context, staffID int64) ([]*domain.AvailabilityRule, error)
	GetByStaffAndWeekday(ctx context.Context, staffID int64, weekday time.Weekday) ([]*domain.AvailabilityRule, error)
	Delete(ctx context.Context, id int64) error
	DeleteByStaff(ctx context.Context, staffID int64) error
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
