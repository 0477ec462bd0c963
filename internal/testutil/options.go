package testutil

import "github.com/trovehq/trove/internal/storage"

// RecordOption mutates a record under construction.
type RecordOption func(storage.Record)

// Field sets an arbitrary field.
func Field(key string, value any) RecordOption {
	return func(rec storage.Record) {
		rec[key] = value
	}
}

// Title sets the title field.
func Title(title string) RecordOption {
	return Field("title", title)
}

// Status sets the status field.
func Status(status string) RecordOption {
	return Field("status", status)
}

// Tags sets the tags field.
func Tags(tags ...string) RecordOption {
	return Field("tags", tags)
}

// InProject links a record to a project.
func InProject(projectID string) RecordOption {
	return Field("project_id", projectID)
}
