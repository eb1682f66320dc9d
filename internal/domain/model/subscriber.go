package model

// SubscriberRecord is the last membership result observed for a user.
// It is an audit trail, never an authorization source: every gated action
// re-queries the live channel membership.
type SubscriberRecord struct {
	UserID       int64
	IsSubscribed bool
}
