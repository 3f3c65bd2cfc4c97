// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lidar

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/meshintel/pointcloud-engine/internal/pathutil"
)

// Writer accumulates point records and writes them out on Close. The
// output encoding is chosen from the target path's extension: ".zlidar"
// compresses, anything else writes a plain las payload.
type Writer struct {
	path   string
	header Header
	points []PointRecord
}

// NewWriter creates a writer producing a file from scratch with the given
// header. The header's point count is replaced on Close.
func NewWriter(path string, h Header) *Writer {
	return &Writer{path: path, header: h}
}

// NewWriterFrom creates a writer whose target inherits the source file's
// header as a metadata template: coordinate system, scale, offset, and
// bounds carry over unchanged.
func NewWriterFrom(path string, template *File) *Writer {
	return &Writer{path: path, header: template.header}
}

// AddRecord appends one point record to the pending output.
func (w *Writer) AddRecord(r PointRecord) {
	w.points = append(w.points, r)
}

// Close finalizes the header and writes the target file in one shot.
func (w *Writer) Close() error {
	w.header.PointCount = uint64(len(w.points))

	var payload bytes.Buffer
	payload.WriteString(lasSignature)
	if err := binary.Write(&payload, binary.LittleEndian, w.header); err != nil {
		return fmt.Errorf("encoding header for %s: %w", w.path, err)
	}
	if err := binary.Write(&payload, binary.LittleEndian, w.points); err != nil {
		return fmt.Errorf("encoding point records for %s: %w", w.path, err)
	}

	data := payload.Bytes()
	if pathutil.Ext(w.path) == "zlidar" {
		var out bytes.Buffer
		out.WriteString(zlidarMagic)
		out.WriteByte(zlidarVersion)
		zw := zlib.NewWriter(&out)
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("compressing %s: %w", w.path, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compressing %s: %w", w.path, err)
		}
		data = out.Bytes()
	}

	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", w.path, err)
	}
	return nil
}
