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

// MemoryManager vends shared in-process repositories and ignores the handle.
// Used with dbx.Passthrough in tests and the development server.
type MemoryManager struct {
	filings        *filings.MemoryRepository
	confirmations  *confirmations.MemoryRepository
	determinations *determinations.MemoryRepository
	users          *users.MemoryRepository
	consents       *consents.MemoryRepository
	consentAudit   *consents.MemoryAuditRepository
	assignments    *assignments.MemoryRepository
	evidence       *evidence.MemoryRepository
	audit          *audit.MemoryRepository
	financials     *financials.MemoryRepository
}

var _ Manager = (*MemoryManager)(nil)

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		filings:        filings.NewMemoryRepository(),
		confirmations:  confirmations.NewMemoryRepository(),
		determinations: determinations.NewMemoryRepository(),
		users:          users.NewMemoryRepository(),
		consents:       consents.NewMemoryRepository(),
		consentAudit:   consents.NewMemoryAuditRepository(),
		assignments:    assignments.NewMemoryRepository(),
		evidence:       evidence.NewMemoryRepository(),
		audit:          audit.NewMemoryRepository(),
		financials:     financials.NewMemoryRepository(),
	}
}

func (m *MemoryManager) Filings(dbx.DBTX) filings.Repository                 { return m.filings }
func (m *MemoryManager) Confirmations(dbx.DBTX) confirmations.Repository     { return m.confirmations }
func (m *MemoryManager) Determinations(dbx.DBTX) determinations.Repository   { return m.determinations }
func (m *MemoryManager) Users(dbx.DBTX) users.Repository                     { return m.users }
func (m *MemoryManager) Consents(dbx.DBTX) consents.Repository               { return m.consents }
func (m *MemoryManager) ConsentAudit(dbx.DBTX) consents.AuditRepository      { return m.consentAudit }
func (m *MemoryManager) Assignments(dbx.DBTX) assignments.Repository         { return m.assignments }
func (m *MemoryManager) Evidence(dbx.DBTX) evidence.Repository               { return m.evidence }
func (m *MemoryManager) Audit(dbx.DBTX) audit.Repository                     { return m.audit }
func (m *MemoryManager) Financials(dbx.DBTX) financials.Repository           { return m.financials }
