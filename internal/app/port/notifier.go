package port

// Notifier surfaces user-facing alerts. The CRM-token gate fires it exactly
// when the resolved balance is zero.
type Notifier interface {
	Notify(message string)
}
