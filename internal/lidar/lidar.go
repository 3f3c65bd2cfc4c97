// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lidar reads and writes the las and zlidar point-cloud formats.
// A zlidar file is a las payload compressed with zlib behind a small magic
// header; both carry the same header fields and fixed-width point records.
package lidar

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	lasSignature = "LASF"
	zlidarMagic  = "ZLDR"

	zlidarVersion = 1

	versionMajor = 1
	versionMinor = 3
)

// Header holds the file-level metadata shared by both formats: coordinate
// scale and offset, bounding box, and the point count.
type Header struct {
	VersionMajor uint8
	VersionMinor uint8
	PointCount   uint64

	XScale, YScale, ZScale    float64
	XOffset, YOffset, ZOffset float64

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// PointRecord is one point in grid coordinates. The conversion engine
// treats records as opaque units; only this package interprets the fields.
type PointRecord struct {
	X, Y, Z        int32
	Intensity      uint16
	ReturnData     uint8
	Classification uint8
	ScanAngle      int8
	UserData       uint8
	PointSourceID  uint16
	GPSTime        float64
}

// recordSize is the encoded size of one PointRecord.
var recordSize = binary.Size(PointRecord{})

// DefaultHeader returns a header with millimetre scale and zero offsets,
// suitable for producing files from scratch.
func DefaultHeader() Header {
	return Header{
		VersionMajor: versionMajor,
		VersionMinor: versionMinor,
		XScale:       0.001,
		YScale:       0.001,
		ZScale:       0.001,
	}
}

// File is an open point-cloud file with its records loaded in memory.
type File struct {
	path   string
	format string
	header Header
	points []PointRecord
}

// Open reads the las or zlidar file at path. The format is detected from
// the file contents, not the extension. The whole file is loaded; an open
// failure is unrecoverable for this call.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	format := "las"
	payload := data
	if bytes.HasPrefix(data, []byte(zlidarMagic)) {
		format = "zlidar"
		payload, err = inflate(data[len(zlidarMagic)+1:])
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
	}

	f := &File{path: path, format: format}
	if err := f.decode(payload); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return f, nil
}

func (f *File) decode(payload []byte) error {
	r := bytes.NewReader(payload)

	var sig [4]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return fmt.Errorf("reading signature: %w", err)
	}
	if string(sig[:]) != lasSignature {
		return fmt.Errorf("bad file signature %q", sig[:])
	}

	if err := binary.Read(r, binary.LittleEndian, &f.header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	// Guard without multiplying: a corrupt point count must not overflow
	// into a passing check or an oversized allocation.
	n := int(f.header.PointCount)
	if n < 0 || r.Len()/recordSize < n {
		return fmt.Errorf("truncated point data: header claims %d records, %d bytes remain", f.header.PointCount, r.Len())
	}

	f.points = make([]PointRecord, n)
	if err := binary.Read(r, binary.LittleEndian, f.points); err != nil {
		return fmt.Errorf("reading point records: %w", err)
	}
	return nil
}

// Header returns a copy of the file header.
func (f *File) Header() Header {
	return f.header
}

// Format returns "las" or "zlidar", detected from the file contents.
func (f *File) Format() string {
	return f.format
}

// PointCount returns the number of point records in the file.
func (f *File) PointCount() int {
	return len(f.points)
}

// ShortName returns the base file name without directory or extension.
func (f *File) ShortName() string {
	base := filepath.Base(f.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Record returns point i. Indices outside [0, PointCount) are an error.
func (f *File) Record(i int) (PointRecord, error) {
	if i < 0 || i >= len(f.points) {
		return PointRecord{}, fmt.Errorf("record index %d out of range [0, %d)", i, len(f.points))
	}
	return f.points[i], nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
