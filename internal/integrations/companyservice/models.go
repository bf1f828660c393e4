package companyservice

// Company модель компании из CompanyService
type Company struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Timezone   string  `json:"timezone"` // IANA zone id, например "Europe/Moscow"
	ManagerIDs []int64 `json:"manager_ids"`
	Staff      []Staff `json:"staff"`
}

// Staff модель сотрудника компании
type Staff struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	IsActive bool    `json:"is_active"`
	Timezone *string `json:"timezone,omitempty"` // Переопределение таймзоны компании (опционально)
}

// Service модель услуги из CompanyService
type Service struct {
	ID              int64    `json:"id"`
	CompanyID       int64    `json:"company_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price,omitempty"`
	IsActive        bool     `json:"is_active"`
}

// StaffByID возвращает сотрудника компании по ID
func (c *Company) StaffByID(staffID int64) (*Staff, bool) {
	for i := range c.Staff {
		if c.Staff[i].ID == staffID {
			return &c.Staff[i], true
		}
	}
	return nil, false
}

// StaffTimezone возвращает таймзону, в которой работает сотрудник:
// собственную, если она задана, иначе таймзону компании.
// Значение никогда не кешируется между запросами - компания может
// сменить таймзону в любой момент.
func (c *Company) StaffTimezone(staffID int64) string {
	if s, ok := c.StaffByID(staffID); ok && s.Timezone != nil && *s.Timezone != "" {
		return *s.Timezone
	}
	return c.Timezone
}

// IsManager проверяет, является ли пользователь менеджером компании
func (c *Company) IsManager(userID int64) bool {
	for _, id := range c.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от CompanyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
