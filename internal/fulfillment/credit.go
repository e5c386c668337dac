package fulfillment

import "github.com/shopspring/decimal"

type CreditStatus string

const (
	CreditOK           CreditStatus = "ok"
	CreditNearLimit    CreditStatus = "near_limit"
	CreditExceedsLimit CreditStatus = "exceeds_limit"
)

var (
	nearLimitRatio  = decimal.NewFromFloat(0.8)
	autoRaiseFactor = decimal.NewFromInt(2)
)

type CreditAssessment struct {
	Status          CreditStatus    `json:"status"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	OrderTotal      decimal.Decimal `json:"order_total"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	// SuggestedLimit is set only when the order exceeds the limit. It is
	// max(2 × order total, new balance), not the bare 2 × total, so a limit
	// raised to it always covers the balance the order produces.
	SuggestedLimit *decimal.Decimal `json:"suggested_limit,omitempty"`
}

func (a CreditAssessment) Exceeded() bool { return a.Status == CreditExceedsLimit }

// EvaluateCredit classifies an order total against a customer's limit and balance.
func EvaluateCredit(limit, balance, total decimal.Decimal) CreditAssessment {
	newBalance := balance.Add(total)
	a := CreditAssessment{
		Status:          CreditOK,
		CreditLimit:     limit,
		CurrentBalance:  balance,
		OrderTotal:      total,
		NewBalance:      newBalance,
		AvailableCredit: limit.Sub(balance),
	}

	switch {
	case newBalance.GreaterThan(limit):
		a.Status = CreditExceedsLimit
		suggested := decimal.Max(total.Mul(autoRaiseFactor), newBalance)
		a.SuggestedLimit = &suggested
	case newBalance.GreaterThan(limit.Mul(nearLimitRatio)):
		a.Status = CreditNearLimit
	}

	return a
}
