package activities

import (
	"context"
)

// Activity functions that will be registered with Temporal worker
// These are wrapper functions that call the actual activity implementations

var migrationActivities *MigrationActivities

// SetMigrationActivities sets the migration activities implementation
func SetMigrationActivities(ma *MigrationActivities) {
	migrationActivities = ma
}

// CheckConnectionActivity is the activity function for checking the Jira connection
func CheckConnectionActivity(ctx context.Context) (ConnectionResult, error) {
	if migrationActivities == nil {
		return ConnectionResult{Connected: false, Message: "migration activities not initialized"}, nil
	}
	return migrationActivities.CheckConnectionActivity(ctx)
}

// CloneIssueActivity is the activity function for cloning issues
func CloneIssueActivity(ctx context.Context, req CloneRequest) (CloneResult, error) {
	if migrationActivities == nil {
		return CloneResult{Success: false, Message: "migration activities not initialized"}, nil
	}
	return migrationActivities.CloneIssueActivity(ctx, req)
}
