package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/database/postgres"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

const (
	syncRunsTable = "sync_runs sr"
)

type SyncRunRepository interface {
	Save(run *domain.SyncRun) error
	Update(run *domain.SyncRun) error
	GetByID(id string) (*domain.SyncRun, error)
	GetLatest(limit int) ([]*domain.SyncRun, error)
	DeleteOlderThan(days int) (int64, error)
}

type syncRunRepository struct {
	conn *postgres.Connection
}

func NewSyncRunRepository(conn *postgres.Connection) SyncRunRepository {
	return &syncRunRepository{
		conn: conn,
	}
}

func (r *syncRunRepository) Save(run *domain.SyncRun) error {
	countersJSON, err := json.Marshal(run.Counters)
	if err != nil {
		return fmt.Errorf("erro ao serializar contadores para JSON: %w", err)
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("sync_runs").
		Columns("id", "trigger", "mode", "status", "started_at", "counters").
		Values(
			run.ID,
			run.Trigger,
			run.Mode,
			run.Status,
			run.StartedAt,
			countersJSON,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *syncRunRepository) Update(run *domain.SyncRun) error {
	countersJSON, err := json.Marshal(run.Counters)
	if err != nil {
		return fmt.Errorf("erro ao serializar contadores para JSON: %w", err)
	}

	query, args, err := squirrel.StatementBuilder.
		Update("sync_runs").
		Set("status", run.Status).
		Set("finished_at", run.FinishedAt).
		Set("counters", countersJSON).
		Set("error_message", run.Error).
		Where(squirrel.Eq{"id": run.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *syncRunRepository) GetByID(id string) (*domain.SyncRun, error) {
	query, args, err := squirrel.
		Select("sr.id, sr.trigger, sr.mode, sr.status, sr.started_at, sr.finished_at, sr.counters, sr.error_message").
		From(syncRunsTable).
		Where(squirrel.Eq{"sr.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	run, err := r.scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear execução: %w", err)
	}

	return run, nil
}

func (r *syncRunRepository) GetLatest(limit int) ([]*domain.SyncRun, error) {
	query, args, err := squirrel.
		Select("sr.id, sr.trigger, sr.mode, sr.status, sr.started_at, sr.finished_at, sr.counters, sr.error_message").
		From(syncRunsTable).
		OrderBy("sr.started_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.SyncRun, 0)
	for rows.Next() {
		run, err := r.scanRunRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear execuções: %w", err)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return runs, nil
}

func (r *syncRunRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query, args, err := squirrel.
		Delete("sync_runs").
		Where(squirrel.Lt{"started_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *syncRunRepository) scanRun(row *sql.Row) (*domain.SyncRun, error) {
	run := &domain.SyncRun{}
	var countersJSON []byte
	var finishedAt sql.NullTime
	var errorMessage sql.NullString

	err := row.Scan(
		&run.ID,
		&run.Trigger,
		&run.Mode,
		&run.Status,
		&run.StartedAt,
		&finishedAt,
		&countersJSON,
		&errorMessage,
	)
	if err != nil {
		return nil, err
	}

	return r.fillRun(run, countersJSON, finishedAt, errorMessage)
}

func (r *syncRunRepository) scanRunRows(rows *sql.Rows) (*domain.SyncRun, error) {
	run := &domain.SyncRun{}
	var countersJSON []byte
	var finishedAt sql.NullTime
	var errorMessage sql.NullString

	err := rows.Scan(
		&run.ID,
		&run.Trigger,
		&run.Mode,
		&run.Status,
		&run.StartedAt,
		&finishedAt,
		&countersJSON,
		&errorMessage,
	)
	if err != nil {
		return nil, err
	}

	return r.fillRun(run, countersJSON, finishedAt, errorMessage)
}

func (r *syncRunRepository) fillRun(
	run *domain.SyncRun,
	countersJSON []byte,
	finishedAt sql.NullTime,
	errorMessage sql.NullString,
) (*domain.SyncRun, error) {
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	if errorMessage.Valid {
		run.Error = errorMessage.String
	}
	if countersJSON != nil {
		if err := json.Unmarshal(countersJSON, &run.Counters); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de counters: %w", err)
		}
	}

	return run, nil
}
