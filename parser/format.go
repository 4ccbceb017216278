package parser

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"
)

var sizeUnits = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes renders a byte count with binary units, e.g. "1.5 KiB".
func FormatBytes(size int64) string {
	if size < 1024 {
		return strconv.FormatInt(size, 10) + " B"
	}
	value := float64(size) / 1024
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + sizeUnits[unit]
}

// detectFormat sniffs the first significant byte of data and falls back to
// the extension of sourceName when data is blank. YAML is a superset of
// JSON, so any non-brace content is reported as YAML.
func detectFormat(data []byte, sourceName string) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	switch {
	case len(trimmed) == 0:
		return formatFromExt(sourceName)
	case trimmed[0] == '{' || trimmed[0] == '[':
		return SourceFormatJSON
	default:
		return SourceFormatYAML
	}
}

func formatFromExt(sourceName string) SourceFormat {
	switch strings.ToLower(filepath.Ext(sourceName)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}
