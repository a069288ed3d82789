// Package repomanager vends repository implementations bound to a database
// handle. Services hold a Manager and a dbx.Runner; inside Runner.InTx they
// ask the Manager for repositories bound to the transactional handle, which
// is what makes every mutating operation atomic across entities.
package repomanager

import (
	"veritax.org/internal/dbx"
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

// Manager vends repositories bound to the given handle. Passing the handle
// obtained inside dbx.Runner.InTx scopes every repository call to that
// transaction.
type Manager interface {
	Filings(db dbx.DBTX) filings.Repository
	Confirmations(db dbx.DBTX) confirmations.Repository
	Determinations(db dbx.DBTX) determinations.Repository
	Users(db dbx.DBTX) users.Repository
	Consents(db dbx.DBTX) consents.Repository
	ConsentAudit(db dbx.DBTX) consents.AuditRepository
	Assignments(db dbx.DBTX) assignments.Repository
	Evidence(db dbx.DBTX) evidence.Repository
	Audit(db dbx.DBTX) audit.Repository
	Financials(db dbx.DBTX) financials.Repository
}
