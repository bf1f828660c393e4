package find_conflicts

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Request модель запроса на проверку коллизий интервала
type Request struct {
	CompanyID int64     // ID компании
	StaffID   int64     // ID сотрудника
	StartUTC  time.Time // Начало проверяемого интервала (UTC)
	EndUTC    time.Time // Конец проверяемого интервала (UTC, эксклюзивно)

	// ExcludeAppointmentID исключает запись из проверки. Используется при
	// переносе: запись не конфликтует сама с собой.
	ExcludeAppointmentID *int64
}

// Response модель ответа со списком найденных коллизий
type Response struct {
	Conflicts []domain.Conflict // Все пересечения в порядке возрастания начала

	// HasBlocking true, если хотя бы одна коллизия не advisory -
	// бронирование этого интервала будет отклонено.
	HasBlocking bool
}
