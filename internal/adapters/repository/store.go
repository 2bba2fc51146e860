// Package repository serves the read-only tension dataset.
package repository

import (
	"context"

	"github.com/okian/aube/internal/domain/tension"
)

// Dataset is the full content of a dataset file.
type Dataset struct {
	Records     []tension.Record      `yaml:"records" validate:"required,min=1,dive"`
	Metrics     []tension.ModelMetric `yaml:"metrics"`
	Radar       []tension.RadarAxis   `yaml:"radar"`
	Departments []tension.Department  `yaml:"departments"`
	Sources     []tension.DataSource  `yaml:"sources"`
	Indicators  tension.Indicators    `yaml:"indicators"`
}

// Store provides read access to the dataset. Returned slices are copies the
// caller may reorder freely.
type Store interface {
	// Records returns every prediction record in dataset order.
	Records(ctx context.Context) []tension.Record
	// Record returns one record by id or ErrNotFound.
	Record(ctx context.Context, id string) (tension.Record, error)
	Metrics(ctx context.Context) []tension.ModelMetric
	Radar(ctx context.Context) []tension.RadarAxis
	Departments(ctx context.Context) []tension.Department
	Sources(ctx context.Context) []tension.DataSource
	Indicators(ctx context.Context) tension.Indicators

	// Count returns the number of prediction records.
	Count(ctx context.Context) int
}
