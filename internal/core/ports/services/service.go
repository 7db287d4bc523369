package services

// ServiceContainer bundles every service facade for injection into handlers.
type ServiceContainer struct {
	Ledger    LedgerSvcFacade
	Voucher   VoucherSvcFacade
	Reporting ReportingSvcFacade
	Auth      AuthSvcFacade
}
