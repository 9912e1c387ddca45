package jira

// Wire shapes of the Jira Service Management REST API

type serviceDeskPage struct {
	Size       int           `json:"size"`
	Start      int           `json:"start"`
	Limit      int           `json:"limit"`
	IsLastPage bool          `json:"isLastPage"`
	Values     []serviceDesk `json:"values"`
}

type serviceDesk struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	ProjectKey  string `json:"projectKey"`
}

type requestTypePage struct {
	Size       int           `json:"size"`
	Start      int           `json:"start"`
	Limit      int           `json:"limit"`
	IsLastPage bool          `json:"isLastPage"`
	Values     []requestType `json:"values"`
}

type requestType struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	HelpText      string   `json:"helpText,omitempty"`
	ServiceDeskID string   `json:"serviceDeskId,omitempty"`
	GroupIDs      []string `json:"groupIds,omitempty"`
}

type requestTypeFields struct {
	RequestTypeFields         []requestTypeField `json:"requestTypeFields"`
	CanRaiseOnBehalfOf        bool               `json:"canRaiseOnBehalfOf"`
	CanAddRequestParticipants bool               `json:"canAddRequestParticipants"`
}

type requestTypeField struct {
	FieldID     string       `json:"fieldId"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	ValidValues []validValue `json:"validValues,omitempty"`
	JiraSchema  *jiraSchema  `json:"jiraSchema,omitempty"`
}

type validValue struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Children []any  `json:"children,omitempty"`
}

type jiraSchema struct {
	Type     string `json:"type"`
	System   string `json:"system,omitempty"`
	Items    string `json:"items,omitempty"`
	Custom   string `json:"custom,omitempty"`
	CustomID int    `json:"customId,omitempty"`
}

type createRequestBody struct {
	ServiceDeskID       string         `json:"serviceDeskId"`
	RequestTypeID       string         `json:"requestTypeId"`
	RequestFieldValues  map[string]any `json:"requestFieldValues"`
	RequestParticipants []string       `json:"requestParticipants"`
}

type createRequestResponse struct {
	IssueID            string              `json:"issueId"`
	IssueKey           string              `json:"issueKey"`
	RequestTypeID      string              `json:"requestTypeId"`
	ServiceDeskID      string              `json:"serviceDeskId"`
	Reporter           *reporter           `json:"reporter,omitempty"`
	RequestFieldValues []requestFieldValue `json:"requestFieldValues"`
	CurrentStatus      *currentStatus      `json:"currentStatus,omitempty"`
}

type reporter struct {
	Name         string `json:"name"`
	Key          string `json:"key"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

type requestFieldValue struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label,omitempty"`
	Value   any    `json:"value"`
}

type currentStatus struct {
	Status string `json:"status"`
}

type temporaryFileResult struct {
	TemporaryAttachments []temporaryAttachment `json:"temporaryAttachments"`
}

type temporaryAttachment struct {
	TemporaryAttachmentID string `json:"temporaryAttachmentId"`
	FileName              string `json:"fileName"`
}

type attachRequest struct {
	TemporaryAttachmentIDs []string `json:"temporaryAttachmentIds"`
	Public                 bool     `json:"public"`
}
