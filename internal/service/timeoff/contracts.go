package timeoff

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/companyservice"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/find_conflicts"
)

// TimeOffRepository интерфейс репозитория time-off интервалов
type TimeOffRepository interface {
	Create(ctx context.Context, t *domain.TimeOff) (*domain.TimeOff, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeOff, error)
	GetWithFilter(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TimeOffStatus) error
	Delete(ctx context.Context, id int64) error
}

// ConflictsUseCase интерфейс детектора коллизий.
// Используется для предупреждений о записях, попадающих под time-off
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
