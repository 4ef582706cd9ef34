// Package hiddesc parses HID report descriptors (the raw byte stream a HID
// device exposes describing its reports) far enough to recognize the two
// canonical collections that identify a HID++ node (spec §4.2).
package hiddesc

import "github.com/Alia5/gohidpp/hidpp"

// Item tags, short-item form (the only form HID++ devices use).
const (
	tagCollection    = 0xA0
	tagEndCollection = 0xC0
	tagUsagePage     = 0x04
	tagUsage         = 0x08
	tagUsageMin      = 0x18
	tagUsageMax      = 0x28
	tagReportID      = 0x84
	tagReportCount   = 0x94
	tagReportSize    = 0x74
	tagInput         = 0x80
	tagOutput        = 0x90
	tagPush          = 0xA4
	tagPop           = 0xB4
)

// Field describes one Input or Output field of a report.
type Field struct {
	Flags   uint32
	Count   uint32
	Size    uint32
	UsageLo uint32 // explicit usage, or range minimum
	UsageHi uint32 // 0 when not a range
}

// IsDataArray reports whether the field is a plain Data+Array field (bit 0
// clear = Data, bit 1 clear = Array), the only kind the HID++ collections
// use.
func (f Field) IsDataArray() bool {
	return f.Flags&0x01 == 0 && f.Flags&0x02 == 0
}

// ReportUsage is a top-level collection's usage page:usage pair and the
// input/output fields declared for each report id nested inside it.
type ReportUsage struct {
	UsagePage uint32
	Usage     uint32
	Inputs    map[uint8][]Field
	Outputs   map[uint8][]Field
}

// Descriptor is the parsed result: one ReportUsage per top-level
// collection.
type Descriptor struct {
	Collections []ReportUsage
}

type parserState struct {
	usagePage uint32
	usages    []uint32 // pending usages for the next main item
	usageMin  uint32
	usageMax  uint32
	haveRange bool
	reportID  uint8
	count     uint32
	size      uint32
}

// Parse decodes a raw HID report descriptor byte stream into a tree of
// top-level collections. Long items are not used by HID devices this
// library targets and are skipped if encountered.
func Parse(b []byte) (Descriptor, error) {
	var desc Descriptor
	var stack []parserState
	st := parserState{}
	var cur *ReportUsage

	i := 0
	for i < len(b) {
		prefix := b[i]
		if prefix == 0xFE {
			// Long item: 0xFE, dataSize, tag, data...
			if i+1 >= len(b) {
				break
			}
			size := int(b[i+1])
			i += 3 + size
			continue
		}
		size := int(prefix & 0x03)
		if size == 3 {
			size = 4
		}
		tag := prefix &^ 0x03
		i++
		if i+size > len(b) {
			return desc, &hidpp.InvalidReportLengthError{Length: len(b)}
		}
		var data uint32
		for j := 0; j < size; j++ {
			data |= uint32(b[i+j]) << (8 * j)
		}
		i += size

		switch tag {
		case tagUsagePage:
			st.usagePage = data
		case tagUsage:
			st.usages = append(st.usages, data)
		case tagUsageMin:
			st.usageMin = data
			st.haveRange = true
		case tagUsageMax:
			st.usageMax = data
			st.haveRange = true
		case tagReportID:
			st.reportID = uint8(data)
		case tagReportCount:
			st.count = data
		case tagReportSize:
			st.size = data
		case tagPush:
			stack = append(stack, st)
		case tagPop:
			if n := len(stack); n > 0 {
				st = stack[n-1]
				stack = stack[:n-1]
			}
		case tagCollection:
			desc.Collections = append(desc.Collections, ReportUsage{
				UsagePage: st.usagePage,
				Usage:     firstUsage(st),
				Inputs:    make(map[uint8][]Field),
				Outputs:   make(map[uint8][]Field),
			})
			cur = &desc.Collections[len(desc.Collections)-1]
			st.usages = nil
			st.haveRange = false
		case tagEndCollection:
			cur = nil
		case tagInput, tagOutput:
			if cur != nil {
				f := Field{Flags: data, Count: st.count, Size: st.size}
				if st.haveRange {
					f.UsageLo, f.UsageHi = st.usageMin, st.usageMax
				} else if len(st.usages) > 0 {
					// Alternate-usage sets collapse to the first, per spec §4.2.
					f.UsageLo = st.usages[0]
				}
				if tag == tagInput {
					cur.Inputs[st.reportID] = append(cur.Inputs[st.reportID], f)
				} else {
					cur.Outputs[st.reportID] = append(cur.Outputs[st.reportID], f)
				}
			}
			st.usages = nil
			st.haveRange = false
		}
	}
	return desc, nil
}

func firstUsage(st parserState) uint32 {
	if len(st.usages) > 0 {
		return st.usages[0]
	}
	if st.haveRange {
		return st.usageMin
	}
	return 0
}

// Canonical HID++ collection identities (spec §4.2).
const (
	hidppUsagePage  = 0xFF00
	shortCollection = 0x0001 // 8x6, report id 0x10
	longCollection  = 0x0002 // 8x19, report id 0x11
)

// Probe validates that the descriptor exposes both canonical HID++
// collections and returns which report types the node supports.
func Probe(desc Descriptor) (hidpp.ReportInfo, error) {
	var info hidpp.ReportInfo
	haveShort, haveLong := false, false
	for _, c := range desc.Collections {
		if c.UsagePage != hidppUsagePage {
			continue
		}
		switch c.Usage {
		case shortCollection:
			if fieldsMatch(c.Inputs[0x10], 8, 6) && fieldsMatch(c.Outputs[0x10], 8, 6) {
				haveShort = true
			}
		case longCollection:
			if fieldsMatch(c.Inputs[0x11], 8, 19) && fieldsMatch(c.Outputs[0x11], 8, 19) {
				haveLong = true
			}
		}
	}
	if !haveShort || !haveLong {
		return info, hidpp.ErrNoHIDPPReport
	}
	info.HasShort = haveShort
	info.HasLong = haveLong
	return info, nil
}

// fieldsMatch reports whether fields describe an 8-bit x count report made
// only of Data+Array fields, per spec §4.2.
func fieldsMatch(fields []Field, size, count uint32) bool {
	if len(fields) == 0 {
		return false
	}
	var total uint32
	for _, f := range fields {
		if f.Size != size || !f.IsDataArray() {
			return false
		}
		total += f.Count
	}
	return total == count
}
