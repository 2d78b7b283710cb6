package dictionary

import (
	"bufio"
	"cmp"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/lexicon"
	"github.com/vmihailenco/msgpack/v5"
)

// Write compiles entries into format.
func Write(w io.Writer, entries []lexicon.Entry, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, entries)
	case FormatBinary:
		return WriteBinary(w, entries)
	case FormatMsgpack:
		return WriteMsgpack(w, entries)
	}
	return fmt.Errorf("cannot write dictionary format %q", format)
}

// WriteText writes one "word<TAB>weight[<TAB>pos]" line per entry.
// Unweighted entries without POS are written as the bare word.
func WriteText(w io.Writer, entries []lexicon.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		line := e.Word
		if e.Weight != 0 || e.POS != "" {
			line += "\t" + strconv.Itoa(e.Weight)
		}
		if e.POS != "" {
			line += "\t" + e.POS
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteBinary writes the ranked binary format. Entries are ranked by descending weight,
// so absolute weights are not preserved, only their order. POS is dropped.
func WriteBinary(w io.Writer, entries []lexicon.Entry) error {
	if len(entries) > maxBinaryEntries {
		return fmt.Errorf("too many entries for binary format: %d", len(entries))
	}
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b lexicon.Entry) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	ranks := utils.CreateRankList(len(sorted))

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(sorted))); err != nil {
		return err
	}
	for i, e := range sorted {
		if len(e.Word) > math.MaxUint16 {
			return fmt.Errorf("word too long for binary format: %d bytes", len(e.Word))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(e.Word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, ranks[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteMsgpack writes entries as an array of {"w","f","p"} maps.
func WriteMsgpack(w io.Writer, entries []lexicon.Entry) error {
	records := make([]record, len(entries))
	for i, e := range entries {
		records[i] = record{Word: e.Word, Weight: e.Weight, POS: e.POS}
	}
	return msgpack.NewEncoder(w).Encode(records)
}
