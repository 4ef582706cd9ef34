package hidpp

import (
	"errors"
	"fmt"
)

// ErrorCodeV1 enumerates the HID++1.0 protocol error codes (spec §6.3).
type ErrorCodeV1 uint8

const (
	V1InvalidSubID        ErrorCodeV1 = 0x01
	V1InvalidAddress      ErrorCodeV1 = 0x02
	V1InvalidValue        ErrorCodeV1 = 0x03
	V1ConnectFail         ErrorCodeV1 = 0x04
	V1TooManyDevices      ErrorCodeV1 = 0x05
	V1AlreadyExists       ErrorCodeV1 = 0x06
	V1Busy                ErrorCodeV1 = 0x07
	V1UnknownDevice       ErrorCodeV1 = 0x08
	V1ResourceError       ErrorCodeV1 = 0x09
	V1RequestUnavailable  ErrorCodeV1 = 0x0A
	V1InvalidParamValue   ErrorCodeV1 = 0x0B
	V1WrongPINCode        ErrorCodeV1 = 0x0C
)

func (c ErrorCodeV1) String() string {
	switch c {
	case V1InvalidSubID:
		return "InvalidSubID"
	case V1InvalidAddress:
		return "InvalidAddress"
	case V1InvalidValue:
		return "InvalidValue"
	case V1ConnectFail:
		return "ConnectFail"
	case V1TooManyDevices:
		return "TooManyDevices"
	case V1AlreadyExists:
		return "AlreadyExists"
	case V1Busy:
		return "Busy"
	case V1UnknownDevice:
		return "UnknownDevice"
	case V1ResourceError:
		return "ResourceError"
	case V1RequestUnavailable:
		return "RequestUnavailable"
	case V1InvalidParamValue:
		return "InvalidParamValue"
	case V1WrongPINCode:
		return "WrongPINCode"
	default:
		return fmt.Sprintf("ErrorCodeV1(0x%02x)", uint8(c))
	}
}

// Hidpp1Error is raised when a call is failed by a v1 error report.
type Hidpp1Error struct {
	Code ErrorCodeV1
}

func (e *Hidpp1Error) Error() string {
	return fmt.Sprintf("hidpp1: %s", e.Code)
}

// ErrorCodeV2 enumerates the HID++2.0 protocol error codes (spec §6.3).
type ErrorCodeV2 uint8

const (
	V2NoError             ErrorCodeV2 = 0
	V2Unknown             ErrorCodeV2 = 1
	V2InvalidArgument     ErrorCodeV2 = 2
	V2OutOfRange          ErrorCodeV2 = 3
	V2HWError             ErrorCodeV2 = 4
	V2LogitechInternal    ErrorCodeV2 = 5
	V2InvalidFeatureIndex ErrorCodeV2 = 6
	V2InvalidFunctionID   ErrorCodeV2 = 7
	V2Busy                ErrorCodeV2 = 8
	V2Unsupported         ErrorCodeV2 = 9
	V2UnknownDevice       ErrorCodeV2 = 10
)

func (c ErrorCodeV2) String() string {
	switch c {
	case V2NoError:
		return "NoError"
	case V2Unknown:
		return "Unknown"
	case V2InvalidArgument:
		return "InvalidArgument"
	case V2OutOfRange:
		return "OutOfRange"
	case V2HWError:
		return "HWError"
	case V2LogitechInternal:
		return "LogitechInternal"
	case V2InvalidFeatureIndex:
		return "InvalidFeatureIndex"
	case V2InvalidFunctionID:
		return "InvalidFunctionID"
	case V2Busy:
		return "Busy"
	case V2Unsupported:
		return "Unsupported"
	case V2UnknownDevice:
		return "UnknownDevice"
	default:
		return fmt.Sprintf("ErrorCodeV2(0x%02x)", uint8(c))
	}
}

// Hidpp2Error is raised when a call is failed by a v2 error report.
type Hidpp2Error struct {
	Code ErrorCodeV2
}

func (e *Hidpp2Error) Error() string {
	return fmt.Sprintf("hidpp2: %s", e.Code)
}

// ErrTimeout is raised when an AsyncReport's timeout elapses before a
// match arrives.
var ErrTimeout = errors.New("hidpp: timeout waiting for response")

// ErrNotRunning is raised on every pending (and subsequently issued) call
// once the dispatcher has stopped.
var ErrNotRunning = errors.New("hidpp: dispatcher is not running")

// ErrNoHIDPPReport is raised when a raw device's report descriptor does
// not expose both canonical HID++ collections.
var ErrNoHIDPPReport = errors.New("hidpp: device does not expose a HID++ report collection")

// UnsupportedFeatureError describes a feature id that the v2 root maps to
// index 0. Nothing in this module queries the root feature or returns it.
type UnsupportedFeatureError struct {
	FeatureID uint16
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("hidpp: feature 0x%04x is not supported by this device", e.FeatureID)
}

// WriteError is raised during a paged-memory sync when the device's
// acknowledgement reports a non-zero error code.
type WriteError struct {
	Code uint8
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("hidpp: flash write failed with code 0x%02x", e.Code)
}
