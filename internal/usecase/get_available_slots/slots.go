package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/timeconv"
)

// buildOpenWindows конвертирует локальные окна правил доступности в UTC
// интервалы для конкретной даты. Конвертация выполняется для каждой даты
// отдельно - смещение таймзоны на эту дату определяется актуальными
// правилами IANA (включая переходы на летнее/зимнее время).
func buildOpenWindows(rules []*domain.AvailabilityRule, date string, tz string) ([]domain.TimeInterval, error) {
	windows := make([]domain.TimeInterval, 0, len(rules))

	for _, rule := range rules {
		start, err := timeconv.ToUTC(date, rule.LocalStart, tz)
		if err != nil {
			return nil, err
		}
		end, err := timeconv.ToUTC(date, rule.LocalEnd, tz)
		if err != nil {
			return nil, err
		}
		// Правило с нулевым или отрицательным окном игнорируем
		if !end.After(start) {
			continue
		}
		windows = append(windows, domain.TimeInterval{Start: start, End: end})
	}

	return windows, nil
}

// collectBusyIntervals собирает занятые интервалы: активные записи плюс
// блокирующие time-off. Каждый интервал симметрично расширяется буфером -
// новый слот не может начинаться внутри буферной зоны вокруг занятого
// интервала.
func collectBusyIntervals(
	appointments []*domain.Appointment,
	timeOffs []*domain.TimeOff,
	pendingBlocks bool,
	buffer time.Duration,
) []domain.TimeInterval {
	busy := make([]domain.TimeInterval, 0, len(appointments)+len(timeOffs))

	for _, appt := range appointments {
		if !appt.IsBlocking() {
			continue
		}
		busy = append(busy, appt.Interval.Pad(buffer))
	}

	for _, t := range timeOffs {
		if !t.Blocks(pendingBlocks) {
			continue
		}
		busy = append(busy, t.Interval.Pad(buffer))
	}

	return busy
}

// generateSlots прокатывает окно длиной в услугу по свободным регионам с
// фиксированным шагом granularity и возвращает все полностью входящие
// стартовые точки в порядке возрастания.
func generateSlots(
	free []domain.TimeInterval,
	durationMinutes int,
	granularityMinutes int,
	tz string,
) ([]domain.AvailableSlot, error) {
	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(granularityMinutes) * time.Minute

	slots := make([]domain.AvailableSlot, 0)

	for _, region := range free {
		// Регион короче услуги не дает ни одного слота
		for start := region.Start; !start.Add(duration).After(region.End); start = start.Add(step) {
			_, clock, err := timeconv.ToLocal(start, tz)
			if err != nil {
				return nil, err
			}
			slots = append(slots, domain.AvailableSlot{
				StartTime:       clock,
				StartUTC:        start,
				DurationMinutes: durationMinutes,
			})
		}
	}

	return slots, nil
}

// filterElapsedSlots отбрасывает слоты, начинающиеся раньше cutoff.
// Используется для "сегодня": нельзя предлагать время, которое уже прошло
// или нарушает минимальное время до записи.
func filterElapsedSlots(slots []domain.AvailableSlot, cutoff time.Time) []domain.AvailableSlot {
	filtered := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.StartUTC.Before(cutoff) {
			continue
		}
		filtered = append(filtered, slot)
	}
	return filtered
}
