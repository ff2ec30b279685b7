package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GainLossType distinguishes settled from period-end revaluation results.
type GainLossType string

const (
	Realized   GainLossType = "REALIZED"
	Unrealized GainLossType = "UNREALIZED"
)

// SettlementDirection indicates whether the foreign balance is owed to the
// entity (receivable) or by it (payable).
type SettlementDirection string

const (
	Receivable SettlementDirection = "RECEIVABLE"
	Payable    SettlementDirection = "PAYABLE"
)

// Valid reports whether d is a known direction. The empty direction is valid
// and means Receivable.
func (d SettlementDirection) Valid() bool {
	switch d {
	case "", Receivable, Payable:
		return true
	}
	return false
}

// ForeignTransaction is a foreign-currency balance booked at BookRate.
type ForeignTransaction struct {
	ForeignAmount      decimal.Decimal `json:"foreignAmount"`
	ForeignCurrency    CurrencyCode    `json:"foreignCurrency"`
	FunctionalCurrency CurrencyCode    `json:"functionalCurrency"`
	BookRate           decimal.Decimal `json:"bookRate"`
	BookDate           Date            `json:"bookDate"`
	ReferenceID        string          `json:"referenceID,omitempty"`
}

// Settlement describes how (and how much of) a ForeignTransaction was settled.
// A nil SettledAmount settles the full foreign amount.
type Settlement struct {
	SettlementRate decimal.Decimal  `json:"settlementRate"`
	SettlementDate Date             `json:"settlementDate"`
	SettledAmount  *decimal.Decimal `json:"settledAmount,omitempty"`
}

// OpenPosition is a still-outstanding foreign balance awaiting revaluation.
type OpenPosition struct {
	ForeignAmount      decimal.Decimal `json:"foreignAmount"`
	ForeignCurrency    CurrencyCode    `json:"foreignCurrency"`
	FunctionalCurrency CurrencyCode    `json:"functionalCurrency"`
	BookRate           decimal.Decimal `json:"bookRate"`
	BookDate           Date            `json:"bookDate"`
	ReferenceID        string          `json:"referenceID,omitempty"`
}

// FxGainLoss is the result of one realized or unrealized computation.
// When PersonalExemptionApplies is false, Amount equals RawAmount.
type FxGainLoss struct {
	Type                     GainLossType    `json:"type"`
	Amount                   decimal.Decimal `json:"amount"`    // reportable, after exemption
	RawAmount                decimal.Decimal `json:"rawAmount"` // before exemption
	FunctionalCurrency       CurrencyCode    `json:"functionalCurrency"`
	OriginalAmount           decimal.Decimal `json:"originalAmount"`
	OriginalCurrency         CurrencyCode    `json:"originalCurrency"`
	BookRate                 decimal.Decimal `json:"bookRate"`
	BookDate                 Date            `json:"bookDate"`
	CurrentRate              decimal.Decimal `json:"currentRate"`
	CurrentDate              Date            `json:"currentDate"`
	PersonalExemptionApplies bool            `json:"personalExemptionApplies"`
	PersonalExemptionAmount  decimal.Decimal `json:"personalExemptionAmount"`
	ReferenceID              string          `json:"referenceID,omitempty"`
	CalculatedAt             time.Time       `json:"calculatedAt"`
}

// IsGain reports whether the reportable amount is positive.
func (g FxGainLoss) IsGain() bool { return g.Amount.IsPositive() }

// RevaluationResult aggregates a batch of unrealized results.
type RevaluationResult struct {
	FunctionalCurrency CurrencyCode    `json:"functionalCurrency"`
	RevaluationDate    Date            `json:"revaluationDate"`
	Results            []FxGainLoss    `json:"results"`
	TotalGain          decimal.Decimal `json:"totalGain"`
	TotalLoss          decimal.Decimal `json:"totalLoss"` // zero or negative
	NetGainLoss        decimal.Decimal `json:"netGainLoss"`
}

// DefaultPersonalExemption is the per-disposition exemption quantum, in
// functional-currency units.
var DefaultPersonalExemption = decimal.NewFromInt(200)

// RealizedOptions tunes CalculateRealizedGainLoss. Whether the filer may claim
// the exemption at all is the caller's decision.
type RealizedOptions struct {
	Direction              SettlementDirection `json:"direction"`
	ApplyPersonalExemption bool                `json:"applyPersonalExemption"`
	// ExemptionAmount overrides DefaultPersonalExemption when set.
	ExemptionAmount *decimal.Decimal `json:"exemptionAmount,omitempty"`
}
