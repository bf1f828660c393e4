package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Recurrence параметры повторяющейся записи
type Recurrence struct {
	Frequency string    // daily / weekly / monthly
	UntilDate time.Time // Последняя локальная дата серии (включительно)
}

// Request модель запроса на создание записи
type Request struct {
	CompanyID  int64
	StaffID    int64
	ServiceID  int64
	CustomerID int64 // Из заголовка авторизации

	Date      time.Time        // Локальная календарная дата первой записи
	StartTime types.TimeString // Локальное время начала (HH:MM)

	Notes      *string
	Recurrence *Recurrence // nil - одиночная запись
}

// OccurrenceFailure описывает несозданную запись повторяющейся серии
type OccurrenceFailure struct {
	Date   string // Локальная дата (YYYY-MM-DD)
	Reason string // Человекочитаемая причина
}

// Response модель ответа на создание записи
type Response struct {
	Created []*domain.Appointment // Успешно созданные записи

	// Failed заполняется только для повторяющихся серий: часть дат может
	// быть занята, остальные записи все равно создаются
	Failed []OccurrenceFailure

	// Truncated true, если серия была обрезана по лимиту повторений
	Truncated bool

	// CustomerNameMissing true, если UserService был недоступен и записи
	// созданы без денормализованного имени клиента
	CustomerNameMissing bool
}
