package mapping

import (
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/bharatbooks/gst_ledger_app/internal/models"
)

// ToModelLedger converts a domain ledger to its database row.
func ToModelLedger(l domain.Ledger) models.Ledger {
	return models.Ledger{
		LedgerID:           l.LedgerID,
		Name:               l.Name,
		Code:               l.Code,
		AccountGroup:       string(l.Group),
		OpeningBalance:     l.OpeningBalance,
		OpeningBalanceDate: l.OpeningBalanceDate,
		Description:        l.Description,
		IsActive:           l.IsActive,
		Balance:            l.Balance,
		AuditFields:        ToModelAuditFields(l.AuditFields),
	}
}

// ToDomainLedger converts a ledger database row to the domain form.
func ToDomainLedger(l models.Ledger) domain.Ledger {
	return domain.Ledger{
		LedgerID:           l.LedgerID,
		Name:               l.Name,
		Code:               l.Code,
		Group:              domain.AccountGroup(l.AccountGroup),
		OpeningBalance:     l.OpeningBalance,
		OpeningBalanceDate: l.OpeningBalanceDate,
		Description:        l.Description,
		IsActive:           l.IsActive,
		Balance:            l.Balance,
		AuditFields:        ToDomainAuditFields(l.AuditFields),
	}
}
