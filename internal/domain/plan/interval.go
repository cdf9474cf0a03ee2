package plan

// Interval is the billing interval of a pricing plan.
type Interval string

const (
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
	IntervalOneTime Interval = "one_time"
)

func (i Interval) IsValid() bool {
	switch i {
	case IntervalMonthly, IntervalYearly, IntervalOneTime:
		return true
	}
	return false
}

func (i Interval) String() string {
	return string(i)
}

// IsRecurring reports whether the interval renews, as opposed to a
// one-time lifetime purchase.
func (i Interval) IsRecurring() bool {
	return i == IntervalMonthly || i == IntervalYearly
}
