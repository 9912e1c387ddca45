package types

// ConnectionStatus is the outcome of a Jira connectivity probe
type ConnectionStatus int

const (
	// Connected means the credentials were accepted
	Connected ConnectionStatus = iota
	// NotConnected means Jira could not be reached or answered unexpectedly
	NotConnected
	// Unauthorized means Jira rejected the credentials
	Unauthorized
)

func (s ConnectionStatus) String() string {
	switch s {
	case Connected:
		return "connected"
	case Unauthorized:
		return "unauthorized"
	default:
		return "not_connected"
	}
}
