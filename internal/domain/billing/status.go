package billing

type Status string

const (
	StatusNone       Status = "none"
	StatusActive     Status = "active"
	StatusTrialing   Status = "trialing"
	StatusPastDue    Status = "past_due"
	StatusIncomplete Status = "incomplete"
	StatusCanceled   Status = "canceled"
)

// Entitled reports whether a subscription in this state grants premium features.
func (s Status) Entitled() bool {
	return s == StatusActive || s == StatusTrialing
}
