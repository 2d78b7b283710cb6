package dictionary

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `# Collins sample
the	100	DT
cat	40
dog 35 NN
dogs
Paris	20	NNP

`

func TestDecodeText(t *testing.T) {
	entries, err := Decode("sample.txt", []byte(sampleText), FormatText)
	require.NoError(t, err)
	assert.Equal(t, []lexicon.Entry{
		{Word: "the", Weight: 100, POS: "DT"},
		{Word: "cat", Weight: 40},
		{Word: "dog", Weight: 35, POS: "NN"},
		{Word: "dogs"},
		{Word: "Paris", Weight: 20, POS: "NNP"},
	}, entries)
}

func TestDecodeTextErrors(t *testing.T) {
	testCases := []struct {
		name string
		data string
		line int
	}{
		{"malformed weight", "cat\t40\ndog\tmany\n", 2},
		{"too many fields", "cat 1 NN extra\n", 1},
		{"invalid utf8", "cat\n\xff\xfe\n", 2},
		{"only comments", "# nothing here\n\n", 0},
		{"empty", "", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode("bad.txt", []byte(tc.data), FormatText)
			require.ErrorIs(t, err, errs.ErrBuild)

			var be *errs.BuildError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "bad.txt", be.Resource)
			assert.Equal(t, tc.line, be.Line)
		})
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	in := []lexicon.Entry{
		{Word: "dog", Weight: 35},
		{Word: "the", Weight: 100},
		{Word: "cat", Weight: 40},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, in))

	out, err := Decode("words.bin", buf.Bytes(), FormatBinary)
	require.NoError(t, err)
	assert.Equal(t, []lexicon.Entry{
		{Word: "the", Weight: 65535},
		{Word: "cat", Weight: 65534},
		{Word: "dog", Weight: 65533},
	}, out)
}

func TestDecodeBinaryErrors(t *testing.T) {
	header := func(n int32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(n))
		return b
	}
	valid := func() []byte {
		var buf bytes.Buffer
		require.NoError(t, WriteBinary(&buf, []lexicon.Entry{{Word: "cat"}, {Word: "dog"}}))
		return buf.Bytes()
	}()

	testCases := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{1, 0}},
		{"negative count", header(-1)},
		{"count beyond data", append(header(1000), 0, 0)},
		{"truncated entry", valid[:len(valid)-3]},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode("bad.bin", tc.data, FormatBinary)
			assert.ErrorIs(t, err, errs.ErrBuild)
		})
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	in := []lexicon.Entry{
		{Word: "colour", Weight: 12, POS: "NN"},
		{Word: "organise", Weight: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteMsgpack(&buf, in))

	assert.Equal(t, FormatMsgpack, Detect("collins", buf.Bytes()))

	out, err := Decode("collins", buf.Bytes(), FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = Decode("broken.msgpack", []byte{0x92, 0xc1}, FormatMsgpack)
	assert.ErrorIs(t, err, errs.ErrBuild)
}

func TestTextRoundTrip(t *testing.T) {
	entries, err := Decode("sample.txt", []byte(sampleText), FormatText)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entries, FormatText))

	again, err := Decode("sample.txt", buf.Bytes(), FormatText)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func TestDetect(t *testing.T) {
	var bin bytes.Buffer
	require.NoError(t, WriteBinary(&bin, []lexicon.Entry{{Word: "cat"}}))

	testCases := []struct {
		name string
		data []byte
		want Format
	}{
		{"words.txt", []byte("cat"), FormatText},
		{"collins.dict", bin.Bytes(), FormatBinary},
		{"words.MPK", nil, FormatMsgpack},
		{"noext", []byte("cat\ndog\n"), FormatText},
		{"noext", bin.Bytes(), FormatBinary},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect(tc.name, tc.data))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("Binary")
	require.NoError(t, err)
	assert.Equal(t, FormatBinary, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatUnknown, f)

	_, err = ParseFormat("fsa")
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestLoadBuildsBothStores(t *testing.T) {
	d, err := Load("sample.txt", []byte(sampleText), FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, FormatText, d.Format)

	assert.True(t, d.Exact.Contains("Paris"))
	assert.False(t, d.Exact.Contains("paris"))
	assert.False(t, d.Exact.FoldCase())

	assert.True(t, d.Folded.Contains("paris"))
	e, ok := d.Folded.Lookup("PARIS")
	require.True(t, ok)
	assert.Equal(t, "Paris", e.Word)

	assert.Len(t, d.Entries(), 5)
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, []lexicon.Entry{{Word: "cat", Weight: 2}, {Word: "dog", Weight: 1}}))
	binPath := filepath.Join(dir, "collins.bin")
	require.NoError(t, os.WriteFile(binPath, buf.Bytes(), 0o644))

	d, err := OpenFile(binPath, FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, FormatBinary, d.Format)
	assert.True(t, d.Exact.Contains("cat"))
	assert.True(t, d.Exact.Contains("dog"))
	assert.Equal(t, binPath, d.Exact.ID())

	plain, err := ReadFile(binPath, FormatBinary)
	require.NoError(t, err)
	assert.Equal(t, d.Entries(), plain.Entries())

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = OpenFile(empty, FormatText)
	assert.ErrorIs(t, err, errs.ErrBuild)

	_, err = OpenFile(filepath.Join(dir, "missing.txt"), FormatText)
	var be *errs.BuildError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{
		"collins.bin", "collins.dict", "collins.msgpack", "collins.mpk",
		"collins.txt", "collins.dic", "collins.words",
	}, Candidates("collins"))
	assert.Equal(t, []string{"collins.txt"}, Candidates("collins.txt"))
}
