package runctl

import "math/bits"

// RunState is the decoded operating mode of the front-end sequencing
// logic. StateError is never commanded directly; it is the decode
// result for every malformed code.
type RunState uint8

const (
	StateIdle RunState = iota
	StatePrepare
	StateSync
	StateRunning
	StateTerminating
	StateLinkTest
	StateSyncTest
	StateResetCmd
	StateOutOfDaq
	StateError
)

// CommandWidth is the ingress one-hot code width. Bit i selects the
// state with enum value i; StateError has no bit.
const CommandWidth = 9

var stateNames = [...]string{
	"idle",
	"prepare",
	"sync",
	"running",
	"terminating",
	"link_test",
	"sync_test",
	"reset_cmd",
	"out_of_daq",
	"error",
}

func (s RunState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// DecodeCommand maps a 9-bit command code to its run state. The map is
// total: exactly one bit set selects the matching state, anything else
// (zero, multiple bits, out-of-width bits) yields StateError.
func DecodeCommand(code uint16) RunState {
	if code == 0 || code >= 1<<CommandWidth {
		return StateError
	}
	if bits.OnesCount16(code) != 1 {
		return StateError
	}
	return RunState(bits.TrailingZeros16(code))
}
