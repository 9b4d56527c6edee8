// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package loader

import (
	"fmt"

	"github.com/netrace/netrace/pkg/config"
	"sigs.k8s.io/yaml"
)

// Data is the content of a network data file, in YAML or JSON.
// Vertex and edge IDs are local to the network.
type Data struct {
	Vertices []VertexData `json:"vertices,omitempty" validate:"dive"`
	Edges    []EdgeData   `json:"edges,omitempty" validate:"dive"`
}

// VertexData describes one vertex.
type VertexData struct {
	ID         string         `json:"id" validate:"required"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// EdgeData describes one directed edge from Source to Target.
type EdgeData struct {
	ID     string `json:"id" validate:"required"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	// Weight is the edge length, default 1.
	Weight     *float64       `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// ReadData reads and validates a data file or URL.
func ReadData(source string) (*Data, error) {
	b, err := config.ReadFileOrURL(source)
	if err != nil {
		return nil, err
	}
	d := &Data{}
	if err := yaml.Unmarshal(b, d); err != nil {
		return nil, fmt.Errorf("%v: %w", source, err)
	}
	if err := config.Validator().Struct(d); err != nil {
		return nil, fmt.Errorf("%v: %w", source, config.FormatValidationError(err))
	}
	return d, nil
}
