package services

import (
	"time"

	portsrepo "github.com/bharatbooks/gst_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bharatbooks/gst_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires every service over the repository provider. The
// voucher and reporting services share one posting guard so an invariant
// violation detected on the read side halts the write side.
func NewServiceContainer(repos portsrepo.RepositoryProvider, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) *portssvc.ServiceContainer {
	guard := NewPostingGuard()

	return &portssvc.ServiceContainer{
		Ledger:    NewLedgerService(repos.LedgerRepo),
		Voucher:   NewVoucherService(repos.VoucherRepo, repos.LedgerRepo, guard),
		Reporting: NewReportingService(repos.ReportingRepo, repos.LedgerRepo, guard),
		Auth:      NewAuthService(repos.UserRepo, jwtSecret, jwtExpiry, jwtIssuer),
	}
}
