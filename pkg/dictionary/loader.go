// Package dictionary turns dictionary sources into lexicon stores.
//
// A source is decoded into lexicon entries and built twice: once case-sensitive for
// membership checks and once case-folded for suggestion search. Files are read through a
// read-only memory map and released as soon as both stores are built.
package dictionary

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/lexicon"
	"github.com/charmbracelet/log"
	"github.com/edsrzf/mmap-go"
	"github.com/vmihailenco/msgpack/v5"
)

// maxBinaryEntries caps the int32 header of binary sources.
const maxBinaryEntries = 10_000_000

// Dictionary is the pair of stores built from one source.
type Dictionary struct {
	Resource string
	Format   Format
	// Exact is case-sensitive and answers "is this token a word".
	Exact *lexicon.Store
	// Folded is lower-cased and drives suggestion search.
	Folded *lexicon.Store
}

// Entries returns the exact store's entries in source order.
func (d *Dictionary) Entries() []lexicon.Entry {
	out := make([]lexicon.Entry, 0, d.Exact.Len())
	for e := range d.Exact.Entries() {
		out = append(out, e)
	}
	return out
}

// record is the msgpack shape of one entry.
type record struct {
	Word   string `msgpack:"w"`
	Weight int    `msgpack:"f,omitempty"`
	POS    string `msgpack:"p,omitempty"`
}

// Decode parses data in the given format. FormatUnknown detects the format from resource
// and the content. Every failure is a *errs.BuildError naming resource.
func Decode(resource string, data []byte, format Format) ([]lexicon.Entry, error) {
	if len(data) == 0 {
		return nil, errs.BuildErrorf(resource, 0, "dictionary source is empty")
	}
	if format == FormatUnknown {
		format = Detect(resource, data)
		log.Debugf("Detected %s format for %s", format, resource)
	}

	switch format {
	case FormatText:
		return decodeText(resource, data)
	case FormatBinary:
		return decodeBinary(resource, data)
	case FormatMsgpack:
		return decodeMsgpack(resource, data)
	}
	return nil, unknownFormat(resource, format)
}

// Load decodes data and builds both stores.
func Load(resource string, data []byte, format Format) (*Dictionary, error) {
	start := time.Now()
	if format == FormatUnknown && len(data) > 0 {
		format = Detect(resource, data)
	}
	entries, err := Decode(resource, data, format)
	if err != nil {
		return nil, err
	}

	exact, err := lexicon.Build(resource, entries, lexicon.Options{})
	if err != nil {
		return nil, err
	}
	folded, err := lexicon.Build(resource, entries, lexicon.Options{FoldCase: true})
	if err != nil {
		return nil, err
	}

	log.Debugf("Loaded dictionary %s (%s): %d words, %d folded keys in %v",
		resource, format, exact.Len(), folded.Len(), time.Since(start))
	return &Dictionary{Resource: resource, Format: format, Exact: exact, Folded: folded}, nil
}

// OpenFile loads a dictionary file through a read-only memory map.
func OpenFile(path string, format Format) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.NewBuildError(path, 0, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.NewBuildError(path, 0, err)
	}
	if info.Size() == 0 {
		return nil, errs.BuildErrorf(path, 0, "dictionary source is empty")
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errs.NewBuildError(path, 0, fmt.Errorf("mmap: %w", err))
	}
	defer func() {
		if err := m.Unmap(); err != nil {
			log.Warnf("Failed to unmap %s: %v", path, err)
		}
	}()

	// Decoders copy every word out of the mapping, so nothing outlives Unmap.
	return Load(path, m, format)
}

// ReadFile loads a dictionary file with a plain read.
func ReadFile(path string, format Format) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewBuildError(path, 0, err)
	}
	return Load(path, data, format)
}

func decodeText(resource string, data []byte) ([]lexicon.Entry, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []lexicon.Entry
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if !utf8.Valid(raw) {
			return nil, errs.BuildErrorf(resource, line, "line is not valid UTF-8")
		}
		text := strings.TrimSpace(string(raw))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		e := lexicon.Entry{Word: fields[0]}
		switch len(fields) {
		case 1:
		case 2, 3:
			weight, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errs.BuildErrorf(resource, line, "malformed weight %q", fields[1])
			}
			e.Weight = weight
			if len(fields) == 3 {
				e.POS = fields[2]
			}
		default:
			return nil, errs.BuildErrorf(resource, line, "expected at most 3 fields, got %d", len(fields))
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.NewBuildError(resource, line+1, err)
	}
	if len(entries) == 0 {
		return nil, errs.BuildErrorf(resource, 0, "dictionary has no entries")
	}
	return entries, nil
}

// decodeBinary reads the ranked format: rank 1 is the most frequent word and becomes
// weight 65535.
func decodeBinary(resource string, data []byte) ([]lexicon.Entry, error) {
	if len(data) < 4 {
		return nil, errs.BuildErrorf(resource, 0, "truncated header (%d bytes)", len(data))
	}
	count := int32(binary.LittleEndian.Uint32(data))
	if count < 0 {
		return nil, errs.BuildErrorf(resource, 0, "invalid word count %d (negative)", count)
	}
	if count > maxBinaryEntries {
		return nil, errs.BuildErrorf(resource, 0, "suspicious word count %d (too large)", count)
	}
	// Each entry takes at least its two uint16 fields.
	if int64(count)*4 > int64(len(data)-4) {
		return nil, errs.BuildErrorf(resource, 0, "word count %d exceeds data size %d", count, len(data))
	}

	entries := make([]lexicon.Entry, 0, count)
	off := 4
	for i := range int(count) {
		if off+2 > len(data) {
			return nil, errs.NewBuildError(resource, i+1, errors.New("truncated word length"))
		}
		wordLen := int(binary.LittleEndian.Uint16(data[off:]))
		off += 2
		if off+wordLen+2 > len(data) {
			return nil, errs.NewBuildError(resource, i+1, errors.New("truncated entry"))
		}
		word := string(data[off : off+wordLen])
		off += wordLen
		rank := binary.LittleEndian.Uint16(data[off:])
		off += 2

		entries = append(entries, lexicon.Entry{Word: word, Weight: math.MaxUint16 + 1 - int(rank)})
	}
	if off != len(data) {
		log.Debugf("Ignoring %d trailing bytes in %s", len(data)-off, resource)
	}
	return entries, nil
}

func decodeMsgpack(resource string, data []byte) ([]lexicon.Entry, error) {
	var records []record
	if err := msgpack.Unmarshal(data, &records); err != nil {
		return nil, errs.NewBuildError(resource, 0, fmt.Errorf("decode msgpack: %w", err))
	}
	entries := make([]lexicon.Entry, len(records))
	for i, r := range records {
		entries[i] = lexicon.Entry{Word: r.Word, Weight: r.Weight, POS: r.POS}
	}
	return entries, nil
}
