package pricing

// Enrollment carries the pricing inputs of one registration. Zero values mean
// "not set": a zero SpecialRate is no special rate, a zero DiscountRate is no
// discount, a zero price lookup prices at 0 rather than failing.
type Enrollment struct {
	TraineeName    string
	SpecialRate    float64
	Companion      bool
	IsMember       bool
	MemberPrice    float64
	NonMemberPrice float64
	DiscountRate   float64
	Paid           bool
}

// RosterLine is one trainee row of a group-invoice roster.
type RosterLine struct {
	Name            string
	Amount          float64
	FormattedAmount string
	Paid            bool
}

// EnrollmentCost derives the single effective price of an enrollment.
//
// A special rate bypasses every other rule. Companions pay half the member
// price regardless of their own membership. Otherwise the member or non-member
// price applies, reduced by the discount fraction when one is set. The result
// is never rounded here; formatting happens at presentation time only.
func EnrollmentCost(e Enrollment) float64 {
	if e.SpecialRate != 0 {
		return e.SpecialRate
	}

	var base float64
	switch {
	case e.Companion:
		base = e.MemberPrice / 2
	case e.IsMember:
		base = e.MemberPrice
	default:
		base = e.NonMemberPrice
	}

	if e.DiscountRate != 0 {
		return base * (1 - e.DiscountRate)
	}
	return base
}

// GroupTotal sums the cost of every enrollment not already paid and retains
// each enrollment's individually formatted amount for the roster table.
func GroupTotal(enrollments []Enrollment) (float64, []RosterLine) {
	total := 0.0
	lines := make([]RosterLine, 0, len(enrollments))

	for _, e := range enrollments {
		amount := EnrollmentCost(e)
		if !e.Paid {
			total += amount
		}
		lines = append(lines, RosterLine{
			Name:            e.TraineeName,
			Amount:          amount,
			FormattedAmount: FormatEUR(amount),
			Paid:            e.Paid,
		})
	}
	return total, lines
}
