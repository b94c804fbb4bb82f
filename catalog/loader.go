package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
)

// Compile-time check to ensure FileLoader implements DatasetLoader
var _ interfaces.DatasetLoader = (*FileLoader)(nil)

// LoadError is a fatal dataset integrity violation. The server must refuse
// to start serving when the loader returns one.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dataset load failed (%s): %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("dataset load failed (%s): %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FileLoader reads the catalog dataset from a JSON file and validates its
// referential integrity before handing it to the container.
type FileLoader struct {
	path      string
	validator interfaces.DataValidator
}

// NewFileLoader creates a loader for the given dataset path
func NewFileLoader(path string, validator interfaces.DataValidator) *FileLoader {
	return &FileLoader{
		path:      path,
		validator: validator,
	}
}

// Load reads, parses and validates the dataset. Every error is a *LoadError.
func (l *FileLoader) Load() (*entities.Dataset, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, &LoadError{Path: l.path, Reason: "cannot read dataset file", Err: err}
	}

	var ds entities.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, &LoadError{Path: l.path, Reason: "cannot parse dataset file", Err: err}
	}

	if err := l.validator.ValidateDataset(&ds); err != nil {
		return nil, &LoadError{Path: l.path, Reason: "dataset integrity violation", Err: err}
	}

	return &ds, nil
}
