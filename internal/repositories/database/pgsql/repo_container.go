package pgsql

import (
	portsrepo "github.com/bharatbooks/gst_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:    newPgxLedgerRepository(pool),
		VoucherRepo:   newPgxVoucherRepository(pool),
		ReportingRepo: newPgxReportingRepository(pool),
		UserRepo:      newPgxUserRepository(pool),
	}
}
