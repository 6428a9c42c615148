package wdf

import (
	"path"
	"strconv"
)

// unknownDir holds assets that have no name table entry.
const unknownDir = "unknown"

// Resolve decides where e is written and whether it is decoded.
//
// When table has an entry for e.UID, that path is used as-is after
// normalization. Otherwise the path is [category/]unknown/<uid>.<ext>
// with the extension sniffed from the payload. table and policy may be
// nil; a nil policy never decodes.
func (a *Archive) Resolve(e Entry, table NameTable, policy DecodePolicy) (ResolvedAsset, error) {
	res := ResolvedAsset{Entry: e}

	if name, ok := lookup(table, e.UID); ok {
		res.Path = NormalizePath(name)
		res.Known = true
	} else {
		ext, err := a.Sniff(e)
		if err != nil {
			return ResolvedAsset{}, err
		}
		res.Path = path.Join(a.category, unknownDir, strconv.FormatUint(uint64(e.UID), 10)+"."+ext)
	}

	if policy != nil {
		res.Decode = policy.Decode(a.category, res.Path)
	}
	return res, nil
}

func lookup(table NameTable, uid uint32) (string, bool) {
	if table == nil {
		return "", false
	}
	return table.Lookup(uid)
}
