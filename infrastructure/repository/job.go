package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

const (
	jobsTable   = "jobs j"
	jobsColumns = "j.id, j.data, j.status, j.batch_id, j.error, j.processed_at, j.created_at, j.updated_at"
)

// ErrJobStateConflict indica que o job não estava no estado esperado para a transição
var ErrJobStateConflict = errors.New("job is not in the expected state")

type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (int64, error)
	NextPending(ctx context.Context) (*domain.Job, error)
	MarkProcessing(ctx context.Context, jobID int64) error
	MarkFinished(ctx context.Context, jobID int64, status domain.JobStatus, processedAt time.Time, errMsg *string) error
	ListCompleted(ctx context.Context) ([]domain.CompletedJob, error)
	SummarizeBatch(ctx context.Context, batchID string) (*domain.BatchSummary, error)
}

type jobRepository struct {
	conn *postgres.Connection
}

func NewJobRepository(conn *postgres.Connection) JobRepository {
	return &jobRepository{
		conn: conn,
	}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) (int64, error) {
	dataJSON, err := json.Marshal(job.Data)
	if err != nil {
		return 0, fmt.Errorf("erro ao serializar dados do job: %w", err)
	}

	status := job.Status
	if status == "" {
		status = domain.JobStatusPending
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("jobs").
		Columns("data", "status", "batch_id").
		Values(dataJSON, status, job.BatchID).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return id, nil
}

// NextPending busca o job pendente mais antigo, ordenado por lote e depois por id
func (r *jobRepository) NextPending(ctx context.Context) (*domain.Job, error) {
	query, args, err := squirrel.
		Select(jobsColumns).
		From(jobsTable).
		Where(squirrel.Eq{"j.status": domain.JobStatusPending}).
		OrderBy("j.batch_id ASC", "j.id ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	job, err := r.scanJob(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar próximo job pendente: %w", err)
	}

	return job, nil
}

func (r *jobRepository) MarkProcessing(ctx context.Context, jobID int64) error {
	query, args, err := squirrel.
		Update("jobs").
		Set("status", domain.JobStatusProcessing).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": jobID, "status": domain.JobStatusPending}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.execTransition(ctx, jobID, query, args)
}

func (r *jobRepository) MarkFinished(ctx context.Context, jobID int64, status domain.JobStatus, processedAt time.Time, errMsg *string) error {
	if status != domain.JobStatusCompleted && status != domain.JobStatusFailed {
		return fmt.Errorf("status final inválido: %s", status)
	}

	query, args, err := squirrel.
		Update("jobs").
		Set("status", status).
		Set("processed_at", processedAt).
		Set("error", errMsg).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": jobID, "status": domain.JobStatusProcessing}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.execTransition(ctx, jobID, query, args)
}

func (r *jobRepository) execTransition(ctx context.Context, jobID int64, query string, args []any) error {
	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: job %d", ErrJobStateConflict, jobID)
	}

	return nil
}

func (r *jobRepository) ListCompleted(ctx context.Context) ([]domain.CompletedJob, error) {
	query, args, err := squirrel.
		Select("j.id, j.processed_at").
		From(jobsTable).
		Where(squirrel.Eq{"j.status": domain.JobStatusCompleted}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.CompletedJob, 0)
	for rows.Next() {
		var job domain.CompletedJob
		var processedAt sql.NullTime
		if err := rows.Scan(&job.ID, &processedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear job: %w", err)
		}
		if processedAt.Valid {
			job.ProcessedAt = &processedAt.Time
		}
		jobs = append(jobs, job)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return jobs, nil
}

func (r *jobRepository) SummarizeBatch(ctx context.Context, batchID string) (*domain.BatchSummary, error) {
	query, args, err := squirrel.
		Select("j.status, COUNT(*)").
		From(jobsTable).
		Where(squirrel.Eq{"j.batch_id": batchID}).
		GroupBy("j.status").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	summary := &domain.BatchSummary{BatchID: batchID}
	for rows.Next() {
		var status domain.JobStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("erro ao escanear resumo do lote: %w", err)
		}

		switch status {
		case domain.JobStatusCompleted:
			summary.Completed = count
		case domain.JobStatusFailed:
			summary.Failed = count
		default:
			summary.Pending += count
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return summary, nil
}

func (r *jobRepository) scanJob(row *sql.Row) (*domain.Job, error) {
	job := &domain.Job{}
	var dataJSON []byte
	var errMsg sql.NullString
	var processedAt sql.NullTime

	if err := row.Scan(
		&job.ID,
		&dataJSON,
		&job.Status,
		&job.BatchID,
		&errMsg,
		&processedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(dataJSON, &job.Data); err != nil {
		return nil, fmt.Errorf("erro ao deserializar JSON de data: %w", err)
	}

	if errMsg.Valid {
		job.Error = &errMsg.String
	}
	if processedAt.Valid {
		job.ProcessedAt = &processedAt.Time
	}

	return job, nil
}
