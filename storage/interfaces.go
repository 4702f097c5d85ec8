package storage

import "projectmap/models"

// ProjectWriter is the interface any project export backend must satisfy.
type ProjectWriter interface {
	Write(projects []*models.Project) error
	Close() error
}

var (
	_ ProjectWriter = (*CSVWriter)(nil)
	_ ProjectWriter = (*PostgresWriter)(nil)
)
