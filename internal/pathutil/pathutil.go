// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pathutil implements the path conventions of the conversion
// tools: delimited input lists, working-directory resolution, and target
// path construction.
package pathutil

import (
	"path/filepath"
	"strings"
)

// SplitList splits a delimited input-file argument into individual tokens.
// Semicolons are tried first; when that yields a single token the list is
// re-split on commas. Each token is trimmed of surrounding whitespace and
// quotes. Blank tokens are kept so batch indices stay stable.
func SplitList(s string) []string {
	parts := strings.Split(s, ";")
	if len(parts) == 1 {
		parts = strings.Split(s, ",")
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `"'`)
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Resolve turns an input token into a usable path. A token with no
// directory separator is taken as relative to workingDir; anything else is
// returned unchanged. Blank tokens stay blank.
func Resolve(path, workingDir string) string {
	if path == "" {
		return ""
	}
	if !strings.ContainsAny(path, `/\`) {
		return filepath.Join(workingDir, path)
	}
	return path
}

// TargetPath builds the output path for an input file. With an output
// directory the target is outDir/<base>.<targetExt>; otherwise the input's
// extension is replaced in place.
func TargetPath(input, outDir, targetExt string) string {
	if outDir == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + "." + targetExt
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+"."+targetExt)
}

// Ext returns the lower-cased file extension without the leading dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
