package types

// ServiceDesk is a Jira Service Management project
type ServiceDesk struct {
	ID          int
	ProjectKey  string
	ProjectName string
}

// ServiceDeskPage is one page of service desk summaries. Size counts every
// entry Jira returned, including ones that could not be decoded into Values.
type ServiceDeskPage struct {
	Start      int
	Limit      int
	IsLastPage bool
	Size       int
	Values     []ServiceDesk
}

// RequestType is a service desk request template
type RequestType struct {
	ID   int
	Name string
}

// ValidValue is an allowed value of a request type field
type ValidValue struct {
	Value string
	Label string
}

// FieldSchema describes the Jira type of a request type field
type FieldSchema struct {
	Type     string
	System   string
	Items    string
	Custom   string
	CustomID int
}

// RequiredField is a field definition of a request type
type RequiredField struct {
	FieldID     string
	Name        string
	Description string
	Required    bool
	ValidValues []ValidValue
	Schema      *FieldSchema
}

// CreateRequest contains what is needed to open a service desk request
type CreateRequest struct {
	ServiceDeskID int
	RequestTypeID int
	FieldValues   map[string]any
}

// TemporaryAttachment is a file staged on a service desk before it is
// attached to a request
type TemporaryAttachment struct {
	ID       string
	FileName string
}
