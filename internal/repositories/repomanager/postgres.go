package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"veritax.org/internal/dbx"
	"veritax.org/internal/migrations"
	"veritax.org/internal/repositories/assignments"
	"veritax.org/internal/repositories/audit"
	"veritax.org/internal/repositories/confirmations"
	"veritax.org/internal/repositories/consents"
	"veritax.org/internal/repositories/determinations"
	"veritax.org/internal/repositories/evidence"
	"veritax.org/internal/repositories/filings"
	"veritax.org/internal/repositories/financials"
	"veritax.org/internal/repositories/users"
)

// PostgresManager vends PostgreSQL-backed repositories. The manager is
// stateless; each call binds a fresh repository to the provided handle.
type PostgresManager struct{}

var _ Manager = (*PostgresManager)(nil)

func NewPostgresManager() *PostgresManager { return &PostgresManager{} }

func (PostgresManager) Filings(db dbx.DBTX) filings.Repository {
	return filings.NewPostgresRepository(db)
}

func (PostgresManager) Confirmations(db dbx.DBTX) confirmations.Repository {
	return confirmations.NewPostgresRepository(db)
}

func (PostgresManager) Determinations(db dbx.DBTX) determinations.Repository {
	return determinations.NewPostgresRepository(db)
}

func (PostgresManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (PostgresManager) Consents(db dbx.DBTX) consents.Repository {
	return consents.NewPostgresRepository(db)
}

func (PostgresManager) ConsentAudit(db dbx.DBTX) consents.AuditRepository {
	return consents.NewPostgresAuditRepository(db)
}

func (PostgresManager) Assignments(db dbx.DBTX) assignments.Repository {
	return assignments.NewPostgresRepository(db)
}

func (PostgresManager) Evidence(db dbx.DBTX) evidence.Repository {
	return evidence.NewPostgresRepository(db)
}

func (PostgresManager) Audit(db dbx.DBTX) audit.Repository {
	return audit.NewPostgresRepository(db)
}

func (PostgresManager) Financials(db dbx.DBTX) financials.Repository {
	return financials.NewPostgresRepository(db)
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
