package dictionary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/pkg/errs"
)

// Format identifies a dictionary source encoding.
type Format int

const (
	FormatUnknown Format = iota // detect from name and content
	FormatText                  // one word per line, optional weight and POS
	FormatBinary                // int32 count header, uint16 len + bytes + uint16 rank per entry
	FormatMsgpack               // array of {"w","f","p"} maps
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      Format
	Name        string
	Description string
	Extensions  []string
}

var supportedFormats = map[Format]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Name:        "text",
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt", ".dic", ".words"},
	},
	FormatBinary: {
		Format:      FormatBinary,
		Name:        "binary",
		Description: "Ranked Binary Dictionary",
		Extensions:  []string{".bin", ".dict"},
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Name:        "msgpack",
		Description: "MessagePack Dictionary",
		Extensions:  []string{".msgpack", ".mpk"},
	},
}

func (f Format) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "auto"
}

// ParseFormat maps a config value to a Format. "" and "auto" mean detect.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatUnknown, nil
	case "text", "txt":
		return FormatText, nil
	case "binary", "bin":
		return FormatBinary, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	}
	return FormatUnknown, errs.NewConfigError("dict.format", name, "must be one of auto, text, binary, msgpack")
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// Detect picks the format of a source. The file extension wins when it is known;
// otherwise the content is sniffed: a msgpack array of maps, then valid NUL-free UTF-8
// as text, and anything else as binary.
func Detect(name string, data []byte) Format {
	ext := strings.ToLower(filepath.Ext(name))
	for _, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return info.Format
			}
		}
	}
	return sniff(data)
}

func sniff(data []byte) Format {
	if len(data) == 0 {
		return FormatUnknown
	}
	if len(data) >= 2 && isMsgpackArray(data[0]) && isMsgpackMap(firstElement(data)) {
		return FormatMsgpack
	}
	if utf8.Valid(data) && bytes.IndexByte(data, 0) < 0 {
		return FormatText
	}
	if len(data) >= 4 && int32(binary.LittleEndian.Uint32(data)) >= 0 {
		return FormatBinary
	}
	return FormatUnknown
}

func isMsgpackArray(b byte) bool {
	return b&0xf0 == 0x90 || b == 0xdc || b == 0xdd
}

func isMsgpackMap(b byte) bool {
	return b&0xf0 == 0x80 || b == 0xde || b == 0xdf
}

// firstElement returns the first byte after the array header.
func firstElement(data []byte) byte {
	skip := 1
	switch data[0] {
	case 0xdc:
		skip = 3
	case 0xdd:
		skip = 5
	}
	if len(data) <= skip {
		return 0
	}
	return data[skip]
}

func unknownFormat(resource string, f Format) error {
	return errs.NewBuildError(resource, 0, fmt.Errorf("unsupported dictionary format %d", int(f)))
}

// Candidates returns the file names a resource may be stored under, compiled formats first.
func Candidates(resource string) []string {
	if filepath.Ext(resource) != "" {
		return []string{resource}
	}
	var names []string
	for _, f := range []Format{FormatBinary, FormatMsgpack, FormatText} {
		for _, ext := range supportedFormats[f].Extensions {
			names = append(names, resource+ext)
		}
	}
	return names
}
