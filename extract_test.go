package wdf

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/wdf/internal/testutil"
	"github.com/meigma/wdf/names"
	"github.com/meigma/wdf/textcodec"
)

func readOutput(t *testing.T, dir, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return data
}

func TestExtractAllUnknownEntity(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, nil, testutil.Asset{UID: 42, Data: []byte("ABC\x00")})
	out := t.TempDir()

	res, err := a.ExtractAll(out, nil, DefaultTextPolicy())
	require.NoError(t, err)

	require.Len(t, res.Extracted, 1)
	assert.Equal(t, "unknown/42.ABC", res.Extracted[0].Path)
	// The zero byte ends the sniffed extension only; the payload is written whole.
	assert.Equal(t, []byte("ABC\x00"), readOutput(t, out, "unknown/42.ABC"))
	assert.Empty(t, res.Skipped)
}

func TestExtractAllWithNameTable(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, nil, testutil.Asset{UID: 42, Data: []byte("ABC\x00")})
	tbl, err := names.Load(strings.NewReader("assets/icon.png|42\n"))
	require.NoError(t, err)
	out := t.TempDir()

	res, err := a.ExtractAll(out, tbl, DefaultTextPolicy())
	require.NoError(t, err)

	require.Len(t, res.Extracted, 1)
	got := res.Extracted[0]
	assert.Equal(t, "assets/icon.png", got.Path)
	assert.True(t, got.Known)
	assert.False(t, got.Decoded)
	assert.Equal(t, []byte("ABC\x00"), readOutput(t, out, "assets/icon.png"))
	assert.NoDirExists(t, filepath.Join(out, "unknown"))
}

func TestExtractAllDecodesText(t *testing.T) {
	t.Parallel()

	plain := []byte("[client]\nname=test\n")
	encoded := textcodec.Decode(bytes.Clone(plain))
	caption := textcodec.Decode([]byte("<caption/>"))

	a := newTestArchive(t, []Option{WithCategory("setting")},
		testutil.Asset{UID: 1, Data: encoded},
		testutil.Asset{UID: 2, Data: caption},
		testutil.Asset{UID: 3, Data: []byte("tga\x00raw")},
	)
	tbl := names.New(map[uint32]string{
		1: `config\client.ini`,
		2: "ui/caption.xml",
	})
	out := t.TempDir()

	res, err := a.ExtractAll(out, tbl, DefaultTextPolicy())
	require.NoError(t, err)
	require.Len(t, res.Extracted, 3)

	assert.Equal(t, plain, readOutput(t, out, "config/client.ini"))
	assert.True(t, res.Extracted[0].Decoded)

	assert.Equal(t, caption, readOutput(t, out, "ui/caption.xml"))
	assert.False(t, res.Extracted[1].Decoded)

	assert.Equal(t, []byte("tga\x00raw"), readOutput(t, out, "setting/unknown/3.tga"))
}

func TestExtractAllFixedPolicy(t *testing.T) {
	t.Parallel()

	payload := []byte("png\x00data")
	a := newTestArchive(t, nil, testutil.Asset{UID: 9, Data: payload})
	out := t.TempDir()

	res, err := a.ExtractAll(out, nil, FixedPolicy(true))
	require.NoError(t, err)
	require.Len(t, res.Extracted, 1)
	assert.True(t, res.Extracted[0].Decoded)
	assert.Equal(t, textcodec.Decode(bytes.Clone(payload)), readOutput(t, out, "unknown/9.png"))
}

func TestExtractAllIdempotent(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, nil,
		testutil.Asset{UID: 1, Data: []byte("wav\x001234")},
		testutil.Asset{UID: 2, Data: []byte("ogg\x00")},
	)
	out := t.TempDir()

	first, err := a.ExtractAll(out, nil, nil)
	require.NoError(t, err)
	second, err := a.ExtractAll(out, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Extracted, second.Extracted)
	assert.Equal(t, digest.FromBytes([]byte("wav\x001234")), first.Extracted[0].Digest)
	assert.Equal(t, uint64(12), first.Bytes())
}

func TestExtractAllSkipExisting(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, nil,
		testutil.Asset{UID: 1, Data: []byte("txt\x00new")},
		testutil.Asset{UID: 2, Data: []byte("dat\x00")},
	)
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "unknown"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(out, "unknown", "1.txt"), []byte("old"), 0o600))

	res, err := a.ExtractAll(out, nil, nil, ExtractWithSkipExisting(true))
	require.NoError(t, err)

	require.Len(t, res.Existing, 1)
	assert.Equal(t, "unknown/1.txt", res.Existing[0].Path)
	require.Len(t, res.Extracted, 1)
	assert.Equal(t, uint32(2), res.Extracted[0].UID)
	assert.Equal(t, []byte("old"), readOutput(t, out, "unknown/1.txt"))
}

func TestExtractAllDirectWrites(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, nil, testutil.Asset{UID: 5, Data: []byte("bmp\x00")})
	out := t.TempDir()

	res, err := a.ExtractAll(out, nil, nil, ExtractWithDirectWrites(true))
	require.NoError(t, err)
	require.Len(t, res.Extracted, 1)
	assert.Equal(t, []byte("bmp\x00"), readOutput(t, out, "unknown/5.bmp"))
}

func TestExtractAllSkipsUnwritableEntries(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	a := newTestArchive(t, []Option{WithLogger(logger)},
		testutil.Asset{UID: 1, Data: []byte("first")},
		testutil.Asset{UID: 2, Data: []byte("escape")},
		testutil.Asset{UID: 3, Data: []byte("under a file")},
		testutil.Asset{UID: 4, Data: []byte("last")},
	)
	tbl := names.New(map[uint32]string{
		1: "blocker",
		2: "../outside.txt",
		3: "blocker/child.txt",
		4: "ok/last.bin",
	})
	out := t.TempDir()

	res, err := a.ExtractAll(out, tbl, nil)
	require.NoError(t, err)

	require.Len(t, res.Extracted, 2)
	assert.Equal(t, "blocker", res.Extracted[0].Path)
	assert.Equal(t, "ok/last.bin", res.Extracted[1].Path)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, uint32(2), res.Skipped[0].UID)
	assert.Equal(t, uint32(3), res.Skipped[1].UID)
	assert.Contains(t, res.Skipped[0].Error(), "../outside.txt")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(out), "outside.txt"))

	assert.Contains(t, logs.String(), "skipping entry")
	assert.Contains(t, logs.String(), "archive extracted")
}

func TestExtractAllSourceFailureAborts(t *testing.T) {
	t.Parallel()

	data, _ := testutil.Build(
		testutil.Asset{UID: 1, Data: []byte("one")},
		testutil.Asset{UID: 2, Data: []byte("two")},
	)
	src := testutil.NewByteSource(data)
	a, err := New(src)
	require.NoError(t, err)

	errDisk := errors.New("disk on fire")
	src.FailReads(errDisk)

	tbl := names.New(map[uint32]string{1: "a.bin", 2: "b.bin"})
	res, err := a.ExtractAll(t.TempDir(), tbl, nil)
	require.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, errDisk)
	assert.Nil(t, res)
}

func TestExtractAllOutputRootFailure(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, nil, testutil.Asset{UID: 1, Data: []byte("x")})
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := a.ExtractAll(filepath.Join(blocker, "out"), nil, nil)
	assert.ErrorIs(t, err, ErrIO)
}

func TestExtractAllWorkers(t *testing.T) {
	t.Parallel()

	assets := make([]testutil.Asset, 0, 64)
	for i := range 64 {
		assets = append(assets, testutil.Asset{
			UID:  uint32(1000 + i), //nolint:gosec // small test values
			Data: append([]byte("bin\x00"), bytes.Repeat([]byte{byte(i)}, i)...),
		})
	}
	a := newTestArchive(t, nil, assets...)

	seqOut, parOut := t.TempDir(), t.TempDir()
	seq, err := a.ExtractAll(seqOut, nil, nil)
	require.NoError(t, err)
	par, err := a.ExtractAll(parOut, nil, nil, ExtractWithWorkers(8))
	require.NoError(t, err)

	assert.Equal(t, seq.Extracted, par.Extracted)
	for _, e := range par.Extracted {
		assert.Equal(t, readOutput(t, seqOut, e.Path), readOutput(t, parOut, e.Path))
	}
}

func TestExtractAllWorkersSourceFailure(t *testing.T) {
	t.Parallel()

	data, _ := testutil.Build(
		testutil.Asset{UID: 1, Data: []byte("one")},
		testutil.Asset{UID: 2, Data: []byte("two")},
		testutil.Asset{UID: 3, Data: []byte("three")},
	)
	src := testutil.NewByteSource(data)
	a, err := New(src)
	require.NoError(t, err)
	src.FailReads(errors.New("gone"))

	_, err = a.ExtractAll(t.TempDir(), nil, nil, ExtractWithWorkers(4))
	assert.ErrorIs(t, err, ErrIO)
}
