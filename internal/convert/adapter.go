// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/meshintel/pointcloud-engine/internal/lidar"
)

// Source is one open point-cloud file. The engine copies its records
// without interpreting them.
type Source interface {
	// PointCount returns the number of point records in the file.
	PointCount() int

	// ShortName returns the base file name without directory or extension.
	ShortName() string

	// Record returns point i for 0 <= i < PointCount.
	Record(i int) (lidar.PointRecord, error)
}

// Target accepts appended records and finalizes the output file on Close.
type Target interface {
	AddRecord(r lidar.PointRecord)
	Close() error
}

// Adapter opens sources and creates targets. The engine depends on this
// interface so tests can substitute fakes for the real codec.
type Adapter interface {
	Open(path string) (Source, error)

	// NewWriter initializes a target file using the source as a metadata
	// template (coordinate system, scale, offset, header fields).
	NewWriter(path string, template Source) (Target, error)
}

// FileAdapter is the production Adapter backed by the lidar package.
type FileAdapter struct{}

func (FileAdapter) Open(path string) (Source, error) {
	return lidar.Open(path)
}

func (FileAdapter) NewWriter(path string, template Source) (Target, error) {
	f, ok := template.(*lidar.File)
	if !ok {
		return nil, fmt.Errorf("template %s is not a lidar file", template.ShortName())
	}
	return lidar.NewWriterFrom(path, f), nil
}
