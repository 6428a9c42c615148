package wdf

import "strings"

// NormalizePath converts a name table path to the slash-separated,
// relative form used for output paths.
//
// It performs the following transformations:
//   - Converts backslashes: `tile\ani\a.ara` → "tile/ani/a.ara"
//   - Strips leading slashes: "/scene/a.txt" → "scene/a.txt"
//   - Strips trailing slashes: "scene/" → "scene"
//   - Collapses consecutive slashes: "scene//a.txt" → "scene/a.txt"
//   - Converts empty string to root: "" → "."
//
// Paths containing "." or ".." elements are preserved; the output writer
// rejects them.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return "."
	}

	parts := strings.Split(p, "/")
	result := parts[:0] // reuse backing array
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return "."
	}
	return strings.Join(result, "/")
}
