package domain

// Default configuration values
const (
	DefaultBufferMinutes           = 0
	DefaultSlotGranularityMinutes  = 15
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
	DefaultPendingTimeOffBlocks    = false
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MinBufferMinutes            = 0
	MaxBufferMinutes            = 120
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxTimeOffReasonLength      = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, при которых запись не отображается
// как активная (отмененные и неявка)
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByCustomer,
	StatusCancelledByCompany,
	StatusNoShow,
}

// BlockingStatuses список статусов, занимающих расписание.
// Используется при подсчете занятых интервалов и в ограничении
// уникальности на уровне БД.
var BlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
