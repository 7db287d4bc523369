package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service layer.
type RepositoryProvider struct {
	LedgerRepo    LedgerRepositoryFacade
	VoucherRepo   VoucherRepositoryFacade
	ReportingRepo ReportingRepositoryFacade
	UserRepo      UserRepositoryFacade
}
