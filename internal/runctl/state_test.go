package runctl

import (
	"testing"

	"github.com/danmuck/resetctl/internal/testutil/testlog"
)

func TestDecodeCommandOneHotTable(t *testing.T) {
	testlog.Start(t)
	want := []RunState{
		StateIdle,
		StatePrepare,
		StateSync,
		StateRunning,
		StateTerminating,
		StateLinkTest,
		StateSyncTest,
		StateResetCmd,
		StateOutOfDaq,
	}
	for bit, state := range want {
		code := uint16(1) << bit
		if got := DecodeCommand(code); got != state {
			t.Fatalf("code %09b decoded to %s, want %s", code, got, state)
		}
	}
}

func TestDecodeCommandMalformedCodes(t *testing.T) {
	testlog.Start(t)
	cases := []uint16{
		0,             // no bit set
		0b000000011,   // two bits set
		0b110000000,   // two high bits set
		0b111111111,   // all bits set
		1 << 9,        // out of width
		1<<9 | 1,      // out of width plus a valid bit
		0b1000000001,  // stray high bit
	}
	for _, code := range cases {
		if got := DecodeCommand(code); got != StateError {
			t.Fatalf("code %010b decoded to %s, want %s", code, got, StateError)
		}
	}
}

func TestRunStateStrings(t *testing.T) {
	testlog.Start(t)
	if StateSync.String() != "sync" {
		t.Fatalf("unexpected sync name: %s", StateSync)
	}
	if StateError.String() != "error" {
		t.Fatalf("unexpected error name: %s", StateError)
	}
	if RunState(200).String() != "unknown" {
		t.Fatalf("out-of-range state should stringify as unknown")
	}
}
