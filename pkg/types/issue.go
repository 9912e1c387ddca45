package types

// Issue is a snapshot of a Jira issue used as the source of a clone
type Issue struct {
	Key         string
	Summary     string
	Description string
	Status      string
	Assignee    string
	ProjectKey  string
	// Attachments holds the content URIs of the issue attachments
	Attachments []string
}

// CreatedIssue is the service desk request produced by a clone
type CreatedIssue struct {
	ID          string
	Key         string
	Summary     string
	Status      string
	FieldValues map[string]any
	// Attachments are the source attachment URIs still to be cloned
	Attachments []string
	// LinkedAttachments are the temporary attachment ids linked to the request
	LinkedAttachments []string
	// FailedAttachments are the source URIs that could not be cloned or linked
	FailedAttachments []string
}
