package stringid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  uint32
	}{
		{"tile archive path", `TILE\ANI\BH_MLOU_03.ara`, 770704020},
		{"character archive path", "character/ani/2011znq001.ara", 3954770787},
		{"empty", "", 3175731469},
		{"single byte", "a", 703514648},
		{"one full block", "abcdefghijkl", 186334885},
		{"block plus one", "abcdefghijklm", 824356913},
		{"tail of eleven", "abcdefghijk", 3844836940},
		{"tail of nine", "abcdefghi", 981142111},
		{"tail of three", "xyz", 981700732},
		{"non category prefix kept", `Scene\Map01.XML`, 388393032},
		{"category with nested dirs", "interface/login/bg.tga", 3953194592},
		{"mixed separators", `helper\data\caption.xml`, 1708963835},
		{"backslash before slash", `character\ani/foo.ara`, 1358620323},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Sum([]byte(tt.input)))
			assert.Equal(t, tt.want, SumString(tt.input))
		})
	}
}

func TestSumCategoryStripping(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sum([]byte("foo.ara")), Sum([]byte("Character/foo.ara")))
	assert.Equal(t, uint32(2270277591), Sum([]byte("Character/foo.ara")))

	for _, c := range Categories() {
		assert.Equal(t, Sum([]byte("x/y.tga")), Sum([]byte(c+`\x\y.tga`)), c)
	}

	// Only the first component is considered.
	assert.NotEqual(t, Sum([]byte("a/b.ara")), Sum([]byte("scene/tile/a/b.ara")))
}

func TestSumDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sum(nil), Sum([]byte{}))
	assert.Equal(t, Sum([]byte("")), Sum([]byte("")))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no separator", "README.TXT", "readme.txt"},
		{"category stripped", `TILE\ANI\BH_MLOU_03.ara`, "ani/bh_mlou_03.ara"},
		{"category case insensitive", "ChArAcTeR/a.ara", "a.ara"},
		{"unknown prefix kept", `Scene\Map01.XML`, "scene/map01.xml"},
		{"category without separator is a name", "character", "character"},
		{"prefix must match exactly", "fxs/a.ara", "fxs/a.ara"},
		{"empty prefix", "/map/a.ara", "/map/a.ara"},
		{"first separator wins", `map\a/b.ara`, "a/b.ara"},
		{"non ascii unchanged", "map/\xc4\xe3.ARA", "\xc4\xe3.ara"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(Normalize([]byte(tt.input))))
		})
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []byte(`TILE\ANI\X.ARA`)
	orig := string(in)
	_ = Normalize(in)
	assert.Equal(t, orig, string(in))
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCategory([]byte("MAP")))
	assert.True(t, IsCategory([]byte("Interface")))
	assert.False(t, IsCategory([]byte("maps")))
	assert.False(t, IsCategory(nil))
	assert.Len(t, Categories(), 8)
}

func TestHashTailBytesAffectResult(t *testing.T) {
	t.Parallel()

	base := []byte("abcdefghijk")
	seen := map[uint32]int{Hash(base): -1}
	for i := range base {
		mod := append([]byte(nil), base...)
		mod[i] ^= 0x01
		h := Hash(mod)
		_, dup := seen[h]
		assert.False(t, dup, "byte %d", i)
		seen[h] = i
	}
}

func BenchmarkSum(b *testing.B) {
	name := []byte(`character\ani\2011znq001.ara`)
	b.ReportAllocs()
	for b.Loop() {
		Sum(name)
	}
}
