package domain

import "io"

// InvoiceSource reads invoice rows from a tabular input.
type InvoiceSource interface {
	Read(r io.Reader, defaults InvoiceDefault) ([]InvoiceRecord, error)
}

// ResultExporter serialises computed results.
type ResultExporter interface {
	Export(w io.Writer, results []IRRResult, places int32) error
}

// ConfigLoader loads project configuration from a directory or file.
type ConfigLoader interface {
	Load(path string) (ProjectConfig, error)
}

// GitInfo provides git repository information for provenance.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}
