package timeoff

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов
type DBExecutor = dbmetrics.DBExecutor

var timeOffColumns = []string{
	"id",
	"company_id",
	"staff_id",
	"start_utc",
	"end_utc",
	"is_full_day",
	"reason",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с time-off интервалами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория time-off
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый time-off интервал
func (r *Repository) Create(ctx context.Context, t *domain.TimeOff) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_off").
		Columns("company_id", "staff_id", "start_utc", "end_utc", "is_full_day", "reason", "status").
		Values(t.CompanyID, t.StaffID, t.Interval.Start, t.Interval.End, t.IsFullDay, t.Reason, t.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

// GetByID получает time-off по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(timeOffColumns...).
		From("time_off").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanTimeOff(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTimeOffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan time off: %v", ErrScanRow, err)
	}

	return t, nil
}

// GetWithFilter получает time-off мастера с фильтрацией по периоду и статусам.
// Пересечение с периодом считается по полуоткрытым интервалам.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(timeOffColumns...).
		From("time_off").
		Where(squirrel.Eq{"staff_id": filter.StaffID})

	if filter.Range != nil {
		selectBuilder = selectBuilder.
			Where(squirrel.Lt{"start_utc": filter.Range.End}).
			Where(squirrel.Gt{"end_utc": filter.Range.Start})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}

	selectBuilder = selectBuilder.OrderBy("start_utc ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTimeOffs(rows)
}

// UpdateStatus обновляет статус time-off (approve/reject)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.TimeOffStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_off").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTimeOffNotFound
	}

	return nil
}

// Delete удаляет time-off
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_off").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTimeOffNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTimeOff(row rowScanner) (*domain.TimeOff, error) {
	var t domain.TimeOff
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.CompanyID,
		&t.StaffID,
		&t.Interval.Start,
		&t.Interval.End,
		&t.IsFullDay,
		&t.Reason,
		&t.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Interval.Start = t.Interval.Start.UTC()
	t.Interval.End = t.Interval.End.UTC()
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}

func scanTimeOffs(rows *sql.Rows) ([]*domain.TimeOff, error) {
	entries := make([]*domain.TimeOff, 0)

	for rows.Next() {
		t, err := scanTimeOff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanTimeOffs - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTimeOffs - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
