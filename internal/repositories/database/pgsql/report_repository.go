package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
)

type PgxReportRepository struct {
	BaseRepository
}

func newPgxReportRepository(db *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxReportRepository implements portsrepo.ReportRepositoryFacade
var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

const reportSelectQuery = `
SELECT
	rp.report_id, rp.client_id, rp.run_id, rp.report_type,
	rp.content_md, rp.content_pdf_url, rp.created_at
FROM reports rp
JOIN clients c ON c.client_id = rp.client_id
`

func (r *PgxReportRepository) getReports(ctx context.Context, filterQuery string, args ...any) ([]domain.Report, error) {
	query := reportSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reports", err)
	}
	defer rows.Close()
	reports, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Report])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Report{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect report rows", err)
	}
	return reports, nil
}

func (r *PgxReportRepository) FindReportByID(ctx context.Context, orgID string, reportID string) (*domain.Report, error) {
	reports, err := r.getReports(ctx, `WHERE rp.report_id = $1 AND c.org_id = $2`, reportID, orgID)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &reports[0], nil
}

func (r *PgxReportRepository) FindReportByRunAndType(ctx context.Context, runID string, reportType domain.ReportType) (*domain.Report, error) {
	reports, err := r.getReports(ctx, `WHERE rp.run_id = $1 AND rp.report_type = $2`, runID, reportType)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &reports[0], nil
}

func (r *PgxReportRepository) ListReportsByClient(ctx context.Context, orgID string, clientID string) ([]domain.Report, error) {
	return r.getReports(ctx, `WHERE rp.client_id = $1 AND c.org_id = $2 ORDER BY rp.created_at DESC`, clientID, orgID)
}

func (r *PgxReportRepository) ListReportsByRun(ctx context.Context, runID string) ([]domain.Report, error) {
	return r.getReports(ctx, `WHERE rp.run_id = $1 ORDER BY rp.report_type ASC`, runID)
}

// SaveReport inserts a report unless one already exists for the (run, type)
// pair, in which case the existing row wins and is returned. That keeps
// concurrent generation requests idempotent without a lock.
func (r *PgxReportRepository) SaveReport(ctx context.Context, report domain.Report) (*domain.Report, error) {
	query := `
		INSERT INTO reports (
			report_id, client_id, run_id, report_type,
			content_md, content_pdf_url, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id, report_type) DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query,
		report.ReportID,
		report.ClientID,
		report.RunID,
		report.Type,
		report.ContentMD,
		report.ContentPDFURL,
		report.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save report "+report.ReportID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.FindReportByRunAndType(ctx, report.RunID, report.Type)
	}
	return &report, nil
}
