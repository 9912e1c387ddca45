package workflows

// WorkflowInput is the input for the clone workflow
type WorkflowInput struct {
	SourceKey  string
	ProjectKey string
}
