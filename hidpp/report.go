// Package hidpp implements the Logitech HID++ vendor protocol core: report
// framing, request/response/event dispatch, paged flash memory, the macro
// instruction codec and the on-device profile binary format.
package hidpp

import "fmt"

// ReportType is the first byte of every HID++ report.
type ReportType uint8

const (
	Short    ReportType = 0x10
	Long     ReportType = 0x11
	VeryLong ReportType = 0x12
)

// paramLen returns the fixed parameter length for Short and Long reports.
// VeryLong has a device-declared length and is not covered here.
func (t ReportType) paramLen() (int, bool) {
	switch t {
	case Short:
		return 3, true
	case Long:
		return 16, true
	default:
		return 0, false
	}
}

func (t ReportType) String() string {
	switch t {
	case Short:
		return "Short"
	case Long:
		return "Long"
	case VeryLong:
		return "VeryLong"
	default:
		return fmt.Sprintf("ReportType(0x%02x)", uint8(t))
	}
}

// DeviceIndex identifies which device on a shared HID node a report targets.
type DeviceIndex uint8

const (
	CordedDevice    DeviceIndex = 0x00
	WirelessDevice1 DeviceIndex = 0x01
	WirelessDevice6 DeviceIndex = 0x06
	DefaultDevice   DeviceIndex = 0xFF
)

// Report is a fixed-layout HID++ frame: byte 0 type, byte 1 device index,
// byte 2 sub_id/feature_index, byte 3 address/(function<<4|sw_id), bytes 4..
// parameters.
type Report struct {
	Type       ReportType
	Device     DeviceIndex
	SubID      uint8 // v1 framing: sub_id. v2 framing: feature_index.
	Address    uint8 // v1 framing: address. v2 framing: function<<4 | sw_id.
	Parameters []byte
}

// Function returns the v2 function id, the high nibble of Address.
func (r Report) Function() uint8 { return r.Address >> 4 }

// SwID returns the v2 software id, the low nibble of Address. It is reserved
// 0 for firmware-originated events.
func (r Report) SwID() uint8 { return r.Address & 0x0F }

// MakeAddress packs a v2 function id and software id into the Address byte.
func MakeAddress(function, swID uint8) uint8 {
	return (function << 4) | (swID & 0x0F)
}

// InvalidReportIDError is raised when the leading byte does not name a known
// report type.
type InvalidReportIDError struct{ ID byte }

func (e *InvalidReportIDError) Error() string {
	return fmt.Sprintf("hidpp: invalid report id 0x%02x", e.ID)
}

// InvalidReportLengthError is raised when a buffer's length disagrees with
// what its report type requires.
type InvalidReportLengthError struct {
	Type   ReportType
	Length int
}

func (e *InvalidReportLengthError) Error() string {
	return fmt.Sprintf("hidpp: invalid report length %d for %s", e.Length, e.Type)
}

// DecodeReport parses raw bytes including the leading report-id byte.
// encode(decode(b)) == b for every well-formed b of the declared length.
func DecodeReport(b []byte) (Report, error) {
	if len(b) < 4 {
		return Report{}, &InvalidReportLengthError{Length: len(b)}
	}
	t := ReportType(b[0])
	switch t {
	case Short, Long:
		want, _ := t.paramLen()
		if len(b) != 4+want {
			return Report{}, &InvalidReportLengthError{Type: t, Length: len(b)}
		}
	case VeryLong:
		if len(b) < 4 {
			return Report{}, &InvalidReportLengthError{Type: t, Length: len(b)}
		}
	default:
		return Report{}, &InvalidReportIDError{ID: b[0]}
	}
	params := make([]byte, len(b)-4)
	copy(params, b[4:])
	return Report{
		Type:       t,
		Device:     DeviceIndex(b[1]),
		SubID:      b[2],
		Address:    b[3],
		Parameters: params,
	}, nil
}

// Encode serializes the report to raw bytes including the leading report-id
// byte. It does not validate Parameters length against Type; callers that
// built the Report by hand are responsible for that invariant, exactly as
// DecodeReport enforces it on the way in.
func (r Report) Encode() []byte {
	out := make([]byte, 4+len(r.Parameters))
	out[0] = byte(r.Type)
	out[1] = byte(r.Device)
	out[2] = r.SubID
	out[3] = r.Address
	copy(out[4:], r.Parameters)
	return out
}

// v1 error sub-id and the addresses used for register access, per spec §6.3.
const (
	SubIDSendDataAck       uint8 = 0x50
	SubIDSetRegisterShort  uint8 = 0x80
	SubIDGetRegisterShort  uint8 = 0x81
	SubIDSetRegisterLong   uint8 = 0x82
	SubIDGetRegisterLong   uint8 = 0x83
	SubIDError             uint8 = 0x8F
	SubIDSendDataBegin     uint8 = 0x90
	SubIDSendDataContinue  uint8 = 0x91
	SubIDSendDataBeginAck  uint8 = 0x92
	SubIDSendDataContAck   uint8 = 0x93
	SubIDMemoryOperation   uint8 = 0xA0
	SubIDResetSeqNum       uint8 = 0xA1
	SubIDMemoryRead        uint8 = 0xA2
)

// V2ErrorFeatureIndex is the feature_index value (0xFF) marking a HID++2.0
// error report.
const V2ErrorFeatureIndex uint8 = 0xFF

// CheckErrorV1 recognizes a v1 error report and returns the sub_id and
// address of the request it refers to, plus the error code.
func CheckErrorV1(r Report) (subID, address, code uint8, ok bool) {
	if r.Type != Short || r.SubID != SubIDError || len(r.Parameters) < 3 {
		return 0, 0, 0, false
	}
	return r.Parameters[0], r.Parameters[1], r.Parameters[2], true
}

// CheckErrorV2 recognizes a v2 error report and returns the feature index,
// function id and software id of the request it refers to, plus the error
// code.
func CheckErrorV2(r Report) (feature, function, swID, code uint8, ok bool) {
	if r.Type != Long || r.SubID != V2ErrorFeatureIndex || len(r.Parameters) < 3 {
		return 0, 0, 0, 0, false
	}
	return r.Parameters[0], r.Parameters[1] >> 4, r.Parameters[1] & 0x0F, r.Parameters[2], true
}

// IsEvent classifies a normal (non-error) report that was not matched to any
// outstanding call. The convention sw_id == 0 OR sub_id < 0x80 distinguishes
// firmware notifications from responses, which always carry the caller's
// sw_id. This is a documented soft spot (spec Open Question 1): for devices
// with feature indices >= 0x80 it may misroute. Treat as observed firmware
// behavior, not a guarantee.
func IsEvent(r Report) bool {
	return r.SwID() == 0 || r.SubID < 0x80
}
