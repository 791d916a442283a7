package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastano/cobranza-engine/internal/domain"
	customError "github.com/dcastano/cobranza-engine/pkg/errors"
	"github.com/dcastano/cobranza-engine/pkg/utils"
)

var (
	hundred = decimal.NewFromInt(100)

	// Quick-pay anchors offered when the debt has no configured minimum.
	suggestAnchors = []decimal.Decimal{
		decimal.NewFromInt(10),
		decimal.NewFromInt(20),
		decimal.NewFromInt(50),
	}
	suggestHeuristicPct = decimal.NewFromFloat(0.1)
	suggestHeuristicMin = decimal.NewFromInt(5)
	suggestHeuristicMax = decimal.NewFromInt(50)
)

// ComputeDebt derives the monetary state of a debt from its terms and the sum
// of its recorded payments, as of the given instant. Pure function, no I/O.
//
// Interest is whole-month simple accrual: a month only counts once its
// day-of-month has passed, and there is no daily proration. A payment made on
// day one of a new month still accrues the full month on the pre-payment
// principal; that is the documented behavior, not a bug.
func ComputeDebt(debt *domain.Debt, paymentsSum decimal.Decimal, asOf time.Time) (*domain.DebtComputed, error) {
	if debt.AmountOriginal.IsNegative() {
		return nil, customError.WrapValidation("amount_original must not be negative")
	}
	if paymentsSum.IsNegative() {
		return nil, customError.WrapValidation("payments sum must not be negative")
	}
	if debt.SplitCount < 0 {
		return nil, customError.WrapValidation("split_count must not be negative")
	}

	principal := debt.AmountOriginal.Sub(paymentsSum)
	if principal.IsNegative() {
		principal = decimal.Zero
	}

	// Interest applies only when the flag is set AND a rate is present. A
	// rate without the flag is ignored by policy, not an error.
	applyInterest := debt.HasInterest && debt.InterestRatePct.Valid

	interest := decimal.Zero
	if applyInterest {
		months := utils.WholeMonthsBetween(debt.IssuedAt, asOf)
		interest = principal.
			Mul(debt.InterestRatePct.Decimal).
			Div(hundred).
			Mul(decimal.NewFromInt(int64(months)))
	}

	var totalDue, balance decimal.Decimal
	if applyInterest {
		totalDue = principal.Add(interest)
		balance = totalDue
	} else {
		totalDue = debt.AmountOriginal
		balance = principal
	}

	// Round only at the boundary; the status check below uses the rounded
	// balance so a debt rounding to 0.00 is PAID.
	principal = utils.Round2(principal)
	interest = utils.Round2(interest)
	totalDue = utils.Round2(totalDue)
	balance = utils.Round2(balance)

	status := domain.DebtStatusPending
	switch {
	case !balance.IsPositive():
		status = domain.DebtStatusPaid
		balance = decimal.Zero
	case debt.DueDate != nil && utils.DayKey(*debt.DueDate) < utils.DayKey(asOf):
		status = domain.DebtStatusOverdue
	}

	computed := &domain.DebtComputed{
		PrincipalOutstanding: principal,
		InterestAccrued:      interest,
		TotalDue:             totalDue,
		Balance:              balance,
		Status:               status,
		SuggestedPayments:    suggestPayments(debt, balance),
		ScheduleSuggested:    suggestSchedule(debt, totalDue),
	}

	return computed, nil
}

// suggestPayments builds the deduplicated, ascending set of quick-pay amounts
// not exceeding the balance. Seeded from the configured minimum (x1, x2, x3)
// when present, otherwise from a 10% heuristic clamped to [5, 50] plus fixed
// anchors.
func suggestPayments(debt *domain.Debt, balance decimal.Decimal) []decimal.Decimal {
	if !balance.IsPositive() {
		return nil
	}

	var candidates []decimal.Decimal
	if debt.MinSuggestedPayment.Valid && debt.MinSuggestedPayment.Decimal.IsPositive() {
		min := debt.MinSuggestedPayment.Decimal
		candidates = []decimal.Decimal{
			min,
			min.Mul(decimal.NewFromInt(2)),
			min.Mul(decimal.NewFromInt(3)),
		}
	} else {
		base := utils.Round2(utils.ClampDecimal(
			balance.Mul(suggestHeuristicPct),
			suggestHeuristicMin,
			suggestHeuristicMax,
		))
		candidates = append([]decimal.Decimal{base}, suggestAnchors...)
	}

	seen := make(map[string]bool, len(candidates))
	suggestions := make([]decimal.Decimal, 0, len(candidates))
	for _, c := range candidates {
		c = utils.Round2(c)
		if !c.IsPositive() || c.GreaterThan(balance) {
			continue
		}
		key := c.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		suggestions = append(suggestions, c)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].LessThan(suggestions[j])
	})

	return suggestions
}

// suggestSchedule splits the total due into SplitCount monthly installments.
// Every installment is round2(totalDue/splitCount) except the last, which
// absorbs the rounding remainder so the amounts sum to round2(totalDue)
// exactly. The first installment is anchored to the due date, or to issuance
// plus one month when no due date is set.
func suggestSchedule(debt *domain.Debt, totalDue decimal.Decimal) []domain.Installment {
	if debt.SplitCount <= 0 {
		return nil
	}

	total := utils.Round2(totalDue)
	count := int64(debt.SplitCount)
	each := utils.Round2(total.Div(decimal.NewFromInt(count)))
	last := total.Sub(each.Mul(decimal.NewFromInt(count - 1)))

	firstDue := debt.IssuedAt.AddDate(0, 1, 0)
	if debt.DueDate != nil {
		firstDue = *debt.DueDate
	}

	schedule := make([]domain.Installment, 0, debt.SplitCount)
	for i := 0; i < debt.SplitCount; i++ {
		amount := each
		if i == debt.SplitCount-1 {
			amount = last
		}
		schedule = append(schedule, domain.Installment{
			Seq:     i + 1,
			DueDate: firstDue.AddDate(0, i, 0),
			Amount:  amount,
		})
	}

	return schedule
}
