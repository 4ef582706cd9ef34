package dispatch

import "github.com/Alia5/gohidpp/hidpp"

// matchResult is what incoming() decides for one report against one
// outstanding call.
type matchResult int

const (
	noMatch matchResult = iota
	matchOK
	matchErrV1
	matchErrV2
)

// classify implements the matching rules of spec §4.3: device_index must
// equal the request's, and then either a normal reply with the same
// (sub_id, address) pair, a v1 error referring to the same pair, or a v2
// error referring to the same (feature, function, sw_id).
func classify(req hidpp.Report, incoming hidpp.Report) matchResult {
	if incoming.Device != req.Device {
		return noMatch
	}
	if subID, addr, _, ok := hidpp.CheckErrorV1(incoming); ok {
		if subID == req.SubID && addr == req.Address {
			return matchErrV1
		}
		return noMatch
	}
	if feature, function, swID, _, ok := hidpp.CheckErrorV2(incoming); ok {
		if feature == req.SubID && function == req.Function() && swID == req.SwID() {
			return matchErrV2
		}
		return noMatch
	}
	if incoming.SubID == req.SubID && incoming.Address == req.Address {
		return matchOK
	}
	return noMatch
}

// errorFor builds the typed error a matched error report resolves to.
func errorFor(kind matchResult, incoming hidpp.Report) error {
	switch kind {
	case matchErrV1:
		_, _, code, _ := hidpp.CheckErrorV1(incoming)
		return &hidpp.Hidpp1Error{Code: hidpp.ErrorCodeV1(code)}
	case matchErrV2:
		_, _, _, code, _ := hidpp.CheckErrorV2(incoming)
		return &hidpp.Hidpp2Error{Code: hidpp.ErrorCodeV2(code)}
	default:
		return nil
	}
}
