package create_appointment

import "errors"

var (
	// ErrCompanyNotFound возвращается, когда компания не найдена
	ErrCompanyNotFound = errors.New("company not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в компании
	ErrStaffNotFound = errors.New("staff not found")

	// ErrStaffInactive возвращается, когда сотрудник деактивирован
	ErrStaffInactive = errors.New("staff is inactive")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("service is inactive")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidTimezone возвращается при некорректной таймзоне компании
	ErrInvalidTimezone = errors.New("invalid company timezone")

	// ErrInvalidDate возвращается при дате в прошлом или некорректной дате
	ErrInvalidDate = errors.New("invalid date")

	// ErrDateTooFarInFuture возвращается при превышении ограничения
	// advanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrTooLateToBook возвращается при нарушении минимального времени
	// до записи
	ErrTooLateToBook = errors.New("booking notice is too short")

	// ErrOutsideWorkingHours возвращается, когда интервал не попадает в
	// рабочие окна мастера
	ErrOutsideWorkingHours = errors.New("interval is outside working hours")

	// ErrSlotUnavailable возвращается, когда интервал пересекается с
	// существующей записью или блокирующим time-off
	ErrSlotUnavailable = errors.New("slot is unavailable")

	// ErrInvalidRecurrence возвращается при некорректных параметрах
	// повторения
	ErrInvalidRecurrence = errors.New("invalid recurrence")

	// ErrAllOccurrencesFailed возвращается, когда ни одна из повторяющихся
	// записей не была создана
	ErrAllOccurrencesFailed = errors.New("no occurrences could be booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
