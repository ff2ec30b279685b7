package domain

import (
	"github.com/shopspring/decimal"
)

// MultiCurrencyEntry is one ledger entry with dual-currency debit and credit
// legs. Either leg may be nil.
type MultiCurrencyEntry struct {
	EntryID     string              `json:"entryID"`
	AccountCode string              `json:"accountCode"`
	Debit       *DualCurrencyAmount `json:"debit,omitempty"`
	Credit      *DualCurrencyAmount `json:"credit,omitempty"`
	Date        Date                `json:"date"`
	EntityID    string              `json:"entityID"`
}

// CurrencyExposure is the net open position in one foreign currency.
type CurrencyExposure struct {
	Currency              CurrencyCode    `json:"currency"`
	TotalDebitForeign     decimal.Decimal `json:"totalDebitForeign"`
	TotalCreditForeign    decimal.Decimal `json:"totalCreditForeign"`
	TotalDebitFunctional  decimal.Decimal `json:"totalDebitFunctional"`
	TotalCreditFunctional decimal.Decimal `json:"totalCreditFunctional"`
	NetPosition           decimal.Decimal `json:"netPosition"`   // foreign terms
	NetFunctional         decimal.Decimal `json:"netFunctional"` // functional terms
	EntryCount            int             `json:"entryCount"`
}

// TrialBalanceLine summarises one (account, currency) pair.
type TrialBalanceLine struct {
	AccountCode      string          `json:"accountCode"`
	Currency         CurrencyCode    `json:"currency"`
	DebitForeign     decimal.Decimal `json:"debitForeign"`
	CreditForeign    decimal.Decimal `json:"creditForeign"`
	DebitFunctional  decimal.Decimal `json:"debitFunctional"`
	CreditFunctional decimal.Decimal `json:"creditFunctional"`
	LatestRate       decimal.Decimal `json:"latestRate"`
	LatestRateDate   Date            `json:"latestRateDate"`
}

// FunctionalAggregate is the functional-currency total of a set of amounts,
// with the per-element conversions that produced it.
type FunctionalAggregate struct {
	Total      MonetaryAmount       `json:"total"`
	Components []DualCurrencyAmount `json:"components"`
}

// Add appends d and adds its functional side to the total.
func (a *FunctionalAggregate) Add(d DualCurrencyAmount) {
	a.Components = append(a.Components, d)
	a.Total.Amount = a.Total.Amount.Add(d.Functional.Amount)
}
