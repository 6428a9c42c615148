package wdf

import (
	"context"
	_ "crypto/sha256" // registers the hash behind digest.Canonical
	"fmt"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/wdf/internal/sink"
	"github.com/meigma/wdf/textcodec"
)

// ExtractedAsset describes one written asset.
type ExtractedAsset struct {
	UID uint32

	// Path is slash-separated and relative to the output directory.
	Path string

	// Size is the number of bytes written.
	Size int

	// Decoded reports whether the payload was XOR-decoded.
	Decoded bool

	// Known reports whether Path came from the name table.
	Known bool

	// Digest is the digest of the bytes written.
	Digest digest.Digest
}

// Result summarizes an ExtractAll run. All slices are in table order.
type Result struct {
	// Extracted lists the assets that were written.
	Extracted []ExtractedAsset

	// Skipped lists entities whose output could not be written.
	Skipped []*EntryError

	// Existing lists entities left alone because their output already
	// existed (see ExtractWithSkipExisting).
	Existing []ResolvedAsset
}

// Bytes returns the total number of bytes written.
func (r *Result) Bytes() uint64 {
	var n uint64
	for _, e := range r.Extracted {
		n += uint64(e.Size) //nolint:gosec // sizes are non-negative
	}
	return n
}

// outcome is the per-entity result slot filled by extractOne.
type outcome struct {
	asset    ExtractedAsset
	resolved ResolvedAsset
	skipped  *EntryError
	existing bool
}

// ExtractAll writes every entity below outputDir, in table order.
//
// For each entity the output path is resolved (see Resolve), parent
// directories are created, the payload is read, decoded when policy says
// so, and written. An entity whose output cannot be written is logged and
// reported in Result.Skipped; the run continues. A failure to read the
// archive itself aborts the run with ErrIO.
//
// table and policy may be nil.
func (a *Archive) ExtractAll(outputDir string, table NameTable, policy DecodePolicy, opts ...ExtractOption) (*Result, error) {
	cfg := extractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	out, err := sink.New(outputDir,
		sink.WithDirectWrites(cfg.directWrite),
		sink.WithSkipExisting(cfg.skipExisting),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer out.Close()

	outcomes := make([]outcome, len(a.entries))
	if cfg.workers > 1 {
		err = a.extractParallel(out, table, policy, outcomes, cfg.workers)
	} else {
		err = a.extractSequential(out, table, policy, outcomes)
	}
	if err != nil {
		return nil, err
	}

	res := collect(outcomes)
	a.log().Info("archive extracted",
		"category", a.category,
		"output", outputDir,
		"extracted", len(res.Extracted),
		"skipped", len(res.Skipped),
		"existing", len(res.Existing),
		"bytes", res.Bytes())
	return res, nil
}

func (a *Archive) extractSequential(out *sink.FileSink, table NameTable, policy DecodePolicy, outcomes []outcome) error {
	for i, e := range a.entries {
		if err := a.extractOne(out, e, table, policy, &outcomes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) extractParallel(out *sink.FileSink, table NameTable, policy DecodePolicy, outcomes []outcome, workers int) error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i, e := range a.entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.extractOne(out, e, table, policy, &outcomes[i])
		})
	}
	return g.Wait()
}

// extractOne processes a single entity. It returns an error only for
// failures that abort the run; output failures are recorded in o.
func (a *Archive) extractOne(out *sink.FileSink, e Entry, table NameTable, policy DecodePolicy, o *outcome) error {
	res, err := a.Resolve(e, table, policy)
	if err != nil {
		return fmt.Errorf("resolve entry %d: %w", e.UID, err)
	}
	o.resolved = res

	if !out.ShouldWrite(res.Path) {
		a.log().Debug("output exists", "uid", e.UID, "path", res.Path)
		o.existing = true
		return nil
	}

	data, err := a.ReadEntry(e)
	if err != nil {
		return fmt.Errorf("extract entry %d: %w", e.UID, err)
	}
	if res.Decode {
		textcodec.Decode(data)
	}

	if err := out.WriteFile(res.Path, data); err != nil {
		a.log().Warn("skipping entry", "uid", e.UID, "path", res.Path, "error", err)
		o.skipped = &EntryError{UID: e.UID, Path: res.Path, Err: err}
		return nil
	}

	o.asset = ExtractedAsset{
		UID:     e.UID,
		Path:    res.Path,
		Size:    len(data),
		Decoded: res.Decode,
		Known:   res.Known,
		Digest:  digest.FromBytes(data),
	}
	a.log().Debug("entry extracted", "uid", e.UID, "path", res.Path, "decoded", res.Decode)
	return nil
}

func collect(outcomes []outcome) *Result {
	res := &Result{}
	for _, o := range outcomes {
		switch {
		case o.skipped != nil:
			res.Skipped = append(res.Skipped, o.skipped)
		case o.existing:
			res.Existing = append(res.Existing, o.resolved)
		default:
			res.Extracted = append(res.Extracted, o.asset)
		}
	}
	return res
}
