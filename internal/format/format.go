// Package format classifies photo files by how safely GPS metadata can be
// written to them. The decision table mirrors what the EXIF libraries and
// exiftool actually support and is built once at process start.
package format

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Level is a format support classification.
type Level int

const (
	// FullWrite formats take a native library write.
	FullWrite Level = iota
	// NeedsExternalTool formats (BMFF containers) require exiftool.
	NeedsExternalTool
	// Risky formats may work but modification can corrupt the file.
	Risky
	// Minimal formats carry no usable metadata container.
	Minimal
)

// String returns the name used in logs and the formats listing.
func (l Level) String() string {
	switch l {
	case FullWrite:
		return "full-write"
	case NeedsExternalTool:
		return "external-tool"
	case Risky:
		return "risky"
	case Minimal:
		return "minimal"
	default:
		return "unknown"
	}
}

// Info pairs a support level with an optional human-readable warning.
type Info struct {
	Level   Level
	Warning string
}

var table = map[string]Info{
	// Native library write.
	"jpg":  {FullWrite, ""},
	"jpeg": {FullWrite, ""},
	"tiff": {FullWrite, ""},
	"tif":  {FullWrite, ""},
	"dng":  {FullWrite, ""},
	"arw":  {FullWrite, ""}, // Sony
	"cr2":  {FullWrite, ""}, // Canon
	"nef":  {FullWrite, ""}, // Nikon
	"orf":  {FullWrite, ""}, // Olympus
	"pef":  {FullWrite, ""}, // Pentax
	"srw":  {FullWrite, ""}, // Samsung
	"webp": {FullWrite, ""},
	"jp2":  {FullWrite, ""},
	"exv":  {FullWrite, ""},
	"psd":  {FullWrite, ""},
	"pgf":  {FullWrite, ""},
	"png":  {FullWrite, ""},

	// BMFF containers need the external tool.
	"heic": {NeedsExternalTool, "Will use external exiftool"},
	"heif": {NeedsExternalTool, "Will use external exiftool"},
	"avif": {NeedsExternalTool, "Will use external exiftool"},
	"cr3":  {NeedsExternalTool, "Will use external exiftool"},
	"jxl":  {NeedsExternalTool, "Will use external exiftool"},

	// Proprietary RAW containers where in-place rewrites are risky.
	"raf": {Risky, "Fujifilm RAW - modification may corrupt file"},
	"rw2": {Risky, "Panasonic RAW - modification may corrupt file"},
	"sr2": {Risky, "Sony old RAW - modification may corrupt file"},
	"mrw": {Risky, "Minolta RAW - modification may corrupt file"},
	"crw": {Risky, "Canon old RAW - modification may corrupt file"},
	"raw": {Risky, "Generic RAW - modification may corrupt file"},

	// No metadata container.
	"bmp": {Minimal, "No metadata support"},
	"gif": {Minimal, "No metadata support"},
	"tga": {Minimal, "No metadata support"},
}

// Ext returns the lowercased extension of path without the leading dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Classify looks up the support level for the file at path. Unknown
// extensions are never treated as safe; they classify as Risky with a
// warning naming the extension.
func Classify(path string) Info {
	ext := Ext(path)
	if info, ok := table[ext]; ok {
		return info
	}
	return Info{
		Level:   Risky,
		Warning: fmt.Sprintf("Unknown format '%s' - modification may corrupt file", ext),
	}
}

// CanSafelyWrite reports whether path takes a native write with no caveats.
func CanSafelyWrite(path string) bool {
	return Classify(path).Level == FullWrite
}

// SupportedExtensions returns every extension present in the table, sorted.
// The scanner uses it to build the initial candidate set.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(table))
	for ext := range table {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ExtensionsByLevel returns the sorted extensions classified at the given
// level, for the formats listing.
func ExtensionsByLevel(level Level) []string {
	var exts []string
	for ext, info := range table {
		if info.Level == level {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
