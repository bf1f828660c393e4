package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	CompanyID int64     // ID компании
	StaffID   int64     // ID сотрудника
	ServiceID int64     // ID услуги
	Date      time.Time // Локальная календарная дата (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time              // Дата, на которую запрашивались слоты
	CompanyID int64                  // ID компании
	StaffID   int64                  // ID сотрудника
	ServiceID int64                  // ID услуги
	Timezone  string                 // Таймзона, в которой выражены времена слотов
	Slots     []domain.AvailableSlot // Упорядоченный список доступных слотов
}
