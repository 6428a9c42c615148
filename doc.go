// Package wdf extracts assets from WDF containers, the uncompressed pack
// format used by a legacy game client.
//
// A container holds a 16-byte header and a flat table of entity records.
// Each entity carries a 32-bit identifier (see package [stringid]), an
// offset and a size. Names are not stored: they are recovered from an
// external known-name list (see package [names]) or synthesized from the
// identifier and a sniffed extension. Text assets were XOR-obfuscated at
// build time (see package [textcodec]); a [DecodePolicy] decides which
// extracted assets are decoded.
//
// # Quick Start
//
//	a, err := wdf.Open("interface.wdf", wdf.WithCategory("interface"))
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	tbl, err := names.LoadFile("known.lst")
//	if err != nil {
//	    return err
//	}
//	res, err := a.ExtractAll("output", tbl, wdf.DefaultTextPolicy())
//
// Assets with a known name are written to output/<name>. Others are written
// to output/[category/]unknown/<uid>.<ext>.
package wdf
