package repository

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/okian/aube/internal/domain/aggregate"
	"github.com/okian/aube/internal/domain/tension"
	"github.com/okian/aube/pkg/logger"
	"github.com/okian/aube/pkg/metrics"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var embeddedDataset []byte

// StaticStore is an immutable in-memory Store loaded once at startup.
type StaticStore struct {
	path  string
	data  Dataset
	index map[string]int
}

// NewStaticStore loads the embedded dataset, or the file set by WithDatasetPath.
func NewStaticStore(opts ...Option) (*StaticStore, error) {
	s := &StaticStore{}
	for _, opt := range opts {
		opt(s)
	}

	raw := embeddedDataset
	source := "embedded"
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
		}
		raw, source = b, s.path
	}

	data, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	s.data = data
	s.index = make(map[string]int, len(data.Records))
	for i, r := range data.Records {
		s.index[r.ID] = i
	}

	metrics.UpdateDatasetRecords(len(data.Records))
	metrics.UpdateDatasetCritical(aggregate.CriticalCount(data.Records))
	metrics.UpdateDatasetZones(len(aggregate.ByZone(data.Records)))

	logger.Get().Info(context.Background(), "dataset loaded",
		logger.String("dataset", source),
		logger.Int("records", len(data.Records)))
	return s, nil
}

// Decode parses and validates a YAML dataset. Record ids must be unique.
func Decode(raw []byte) (Dataset, error) {
	var data Dataset
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if err := validator.New().Struct(data); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	seen := make(map[string]struct{}, len(data.Records))
	for _, r := range data.Records {
		if _, dup := seen[r.ID]; dup {
			return Dataset{}, fmt.Errorf("%w: duplicate record id %q", ErrInvalidDataset, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return data, nil
}

func (s *StaticStore) Records(context.Context) []tension.Record {
	return slices.Clone(s.data.Records)
}

func (s *StaticStore) Record(_ context.Context, id string) (tension.Record, error) {
	i, ok := s.index[id]
	if !ok {
		return tension.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.data.Records[i], nil
}

func (s *StaticStore) Metrics(context.Context) []tension.ModelMetric {
	return slices.Clone(s.data.Metrics)
}

func (s *StaticStore) Radar(context.Context) []tension.RadarAxis {
	return slices.Clone(s.data.Radar)
}

func (s *StaticStore) Departments(context.Context) []tension.Department {
	return slices.Clone(s.data.Departments)
}

func (s *StaticStore) Sources(context.Context) []tension.DataSource {
	return slices.Clone(s.data.Sources)
}

func (s *StaticStore) Indicators(context.Context) tension.Indicators {
	return s.data.Indicators
}

func (s *StaticStore) Count(context.Context) int {
	return len(s.data.Records)
}
