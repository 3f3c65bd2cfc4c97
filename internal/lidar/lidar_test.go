// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lidar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// samplePoints returns n distinct point records.
func samplePoints(n int) []PointRecord {
	points := make([]PointRecord, n)
	for i := range points {
		points[i] = PointRecord{
			X: int32(i * 10), Y: int32(i * 20), Z: int32(i * 30),
			Intensity:      uint16(i),
			ReturnData:     0x11,
			Classification: 2,
			ScanAngle:      int8(i % 90),
			PointSourceID:  7,
			GPSTime:        float64(i) * 0.5,
		}
	}
	return points
}

// writeFile writes a point-cloud file at path and fails the test on error.
func writeFile(t *testing.T, path string, points []PointRecord) {
	t.Helper()
	w := NewWriter(path, DefaultHeader())
	for _, p := range points {
		w.AddRecord(p)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		wantFormat string
	}{
		{name: "las", file: "tile.las", wantFormat: "las"},
		{name: "zlidar", file: "tile.zlidar", wantFormat: "zlidar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			points := samplePoints(100)
			writeFile(t, path, points)

			f, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if f.Format() != tt.wantFormat {
				t.Errorf("Format() = %q, want %q", f.Format(), tt.wantFormat)
			}
			if f.PointCount() != len(points) {
				t.Fatalf("PointCount() = %d, want %d", f.PointCount(), len(points))
			}
			for i, want := range points {
				got, err := f.Record(i)
				if err != nil {
					t.Fatalf("Record(%d): %v", i, err)
				}
				if got != want {
					t.Errorf("Record(%d) = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestZlidarSmallerThanLas(t *testing.T) {
	dir := t.TempDir()
	points := samplePoints(500)

	lasPath := filepath.Join(dir, "tile.las")
	zPath := filepath.Join(dir, "tile.zlidar")
	writeFile(t, lasPath, points)
	writeFile(t, zPath, points)

	lasInfo, err := os.Stat(lasPath)
	if err != nil {
		t.Fatal(err)
	}
	zInfo, err := os.Stat(zPath)
	if err != nil {
		t.Fatal(err)
	}
	if zInfo.Size() >= lasInfo.Size() {
		t.Errorf("zlidar size %d should be below las size %d", zInfo.Size(), lasInfo.Size())
	}
}

func TestShortName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey_tile_04.zlidar")
	writeFile(t, path, samplePoints(1))

	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.ShortName() != "survey_tile_04" {
		t.Errorf("ShortName() = %q, want %q", f.ShortName(), "survey_tile_04")
	}
}

func TestRecordOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.las")
	writeFile(t, path, samplePoints(3))

	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, i := range []int{-1, 3, 100} {
		if _, err := f.Record(i); err == nil {
			t.Errorf("Record(%d) should fail", i)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := Open(filepath.Join(dir, "absent.zlidar")); err == nil {
			t.Error("Open should fail for a missing file")
		}
	})

	t.Run("bad signature", func(t *testing.T) {
		path := filepath.Join(dir, "junk.las")
		if err := os.WriteFile(path, []byte("not a point cloud"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Open(path)
		if err == nil || !strings.Contains(err.Error(), "signature") {
			t.Errorf("Open = %v, want signature error", err)
		}
	})

	// The header's point count field sits after the 4-byte signature and
	// two version bytes.
	const pointCountOffset = 6

	t.Run("oversized point count", func(t *testing.T) {
		path := filepath.Join(dir, "oversized.las")
		writeFile(t, path, samplePoints(2))
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		// Claim 2^62 records; multiplying that by the record size wraps
		// around, so the guard must not rely on the product.
		copy(data[pointCountOffset:], []byte{0, 0, 0, 0, 0, 0, 0, 0x40})
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		_, err = Open(path)
		if err == nil || !strings.Contains(err.Error(), "truncated") {
			t.Errorf("Open = %v, want truncated point data error", err)
		}
	})

	t.Run("point count above int range", func(t *testing.T) {
		path := filepath.Join(dir, "wrapped.las")
		writeFile(t, path, samplePoints(2))
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		// All-ones count converts to a negative int.
		copy(data[pointCountOffset:], []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(path); err == nil {
			t.Error("Open should fail for a point count above int range")
		}
	})

	t.Run("truncated points", func(t *testing.T) {
		path := filepath.Join(dir, "full.las")
		writeFile(t, path, samplePoints(10))
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		shortPath := filepath.Join(dir, "short.las")
		if err := os.WriteFile(shortPath, data[:len(data)-8], 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(shortPath); err == nil {
			t.Error("Open should fail for truncated point data")
		}
	})
}

func TestNewWriterFromCopiesTemplate(t *testing.T) {
	dir := t.TempDir()

	srcPath := filepath.Join(dir, "src.zlidar")
	h := DefaultHeader()
	h.XOffset, h.YOffset, h.ZOffset = 100, 200, 300
	h.MinX, h.MaxX = -5, 5
	w := NewWriter(srcPath, h)
	for _, p := range samplePoints(4) {
		w.AddRecord(p)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	src, err := Open(srcPath)
	if err != nil {
		t.Fatal(err)
	}

	dstPath := filepath.Join(dir, "dst.las")
	dst := NewWriterFrom(dstPath, src)
	for i := 0; i < src.PointCount(); i++ {
		r, err := src.Record(i)
		if err != nil {
			t.Fatal(err)
		}
		dst.AddRecord(r)
	}
	if err := dst.Close(); err != nil {
		t.Fatal(err)
	}

	out, err := Open(dstPath)
	if err != nil {
		t.Fatal(err)
	}
	got, want := out.Header(), src.Header()
	if got != want {
		t.Errorf("target header = %+v, want template header %+v", got, want)
	}
}
