package timeoff

import "errors"

var (
	// ErrTimeOffNotFound возвращается, когда time-off не найден
	ErrTimeOffNotFound = errors.New("time off not found")

	// ErrCompanyNotFound возвращается, когда компания не найдена
	ErrCompanyNotFound = errors.New("company not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в компании
	ErrStaffNotFound = errors.New("staff not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidStatus возвращается при недопустимой смене статуса
	ErrInvalidStatus = errors.New("invalid time off status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
