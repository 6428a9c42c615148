package wdf

import (
	"path"
	"slices"
)

// DecodePolicy decides whether an extracted asset is XOR-decoded.
//
// category is the archive category (possibly empty) and outputPath the
// slash-separated path relative to the output directory.
type DecodePolicy interface {
	Decode(category, outputPath string) bool
}

// DecodePolicyFunc adapts a function to DecodePolicy.
type DecodePolicyFunc func(category, outputPath string) bool

// Decode calls f.
func (f DecodePolicyFunc) Decode(category, outputPath string) bool {
	return f(category, outputPath)
}

// FixedPolicy returns a policy that gives the same answer for every asset.
func FixedPolicy(decode bool) DecodePolicy {
	return fixedPolicy(decode)
}

type fixedPolicy bool

func (p fixedPolicy) Decode(string, string) bool {
	return bool(p)
}

// ExtensionPolicy decodes assets whose extension is listed in Extensions
// and whose file name is not listed in Excludes.
//
// Extensions include the leading dot (".txt"). Matching is case-sensitive.
// Excludes are compared with the whole base name, so "caption.xml" does
// not exclude "ui_caption.xml".
type ExtensionPolicy struct {
	Extensions []string
	Excludes   []string
}

// Decode implements DecodePolicy.
func (p ExtensionPolicy) Decode(_, outputPath string) bool {
	if !slices.Contains(p.Extensions, path.Ext(outputPath)) {
		return false
	}
	return !slices.Contains(p.Excludes, path.Base(outputPath))
}

// DefaultTextPolicy returns the extension policy used for the shipped
// client data: .txt, .xml and .ini are decoded, except caption.xml, which
// was packed in clear.
func DefaultTextPolicy() ExtensionPolicy {
	return ExtensionPolicy{
		Extensions: []string{".txt", ".xml", ".ini"},
		Excludes:   []string{"caption.xml"},
	}
}

// CategoryPolicy applies a fixed decision per archive category and defers
// to Fallback for categories it does not list. A nil Fallback never decodes.
type CategoryPolicy struct {
	Categories map[string]bool
	Fallback   DecodePolicy
}

// Decode implements DecodePolicy.
func (p CategoryPolicy) Decode(category, outputPath string) bool {
	if decode, ok := p.Categories[category]; ok {
		return decode
	}
	if p.Fallback == nil {
		return false
	}
	return p.Fallback.Decode(category, outputPath)
}
