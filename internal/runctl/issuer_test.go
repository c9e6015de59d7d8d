package runctl

import (
	"errors"
	"testing"

	"github.com/danmuck/resetctl/internal/domain"
	"github.com/danmuck/resetctl/internal/testutil/testlog"
)

func TestIssuerLaneCountValidation(t *testing.T) {
	testlog.Start(t)
	if _, err := NewIssuer(NewDecoder(), 0); !errors.Is(err, ErrInvalidLaneCount) {
		t.Fatalf("expected ErrInvalidLaneCount, got %v", err)
	}
}

func TestResetLineForAllStates(t *testing.T) {
	testlog.Start(t)
	d, dec, iss := newRunctl(t, 2)

	codes := []struct {
		code  uint16
		state RunState
	}{
		{0b000000001, StateIdle},
		{0b000000010, StatePrepare},
		{0b000000100, StateSync},
		{0b000001000, StateRunning},
		{0b000010000, StateTerminating},
		{0b000100000, StateLinkTest},
		{0b001000000, StateSyncTest},
		{0b010000000, StateResetCmd},
		{0b100000000, StateOutOfDaq},
		{0b000000000, StateError},
	}
	for _, tc := range codes {
		dec.Offer(Command{Code: tc.code, Valid: true})
		d.Step()
		if dec.State() != tc.state {
			t.Fatalf("code %09b: state=%s want %s", tc.code, dec.State(), tc.state)
		}
		d.Step()
		want := tc.state == StateSync
		if got := iss.Line(); got != want {
			t.Fatalf("state %s: line=%v want %v", tc.state, got, want)
		}
	}
}

func TestIssuerLanesNeverSkew(t *testing.T) {
	testlog.Start(t)
	d, dec, iss := newRunctl(t, 5)

	stimulus := []Command{
		{Code: 0b000000100, Valid: true},
		{Valid: false},
		{Code: 0b000000001, Valid: true},
		{Code: 0b000000100, Valid: true},
		{Valid: false},
	}
	for _, cmd := range stimulus {
		dec.Offer(cmd)
		d.Step()
		lanes := iss.Lanes()
		if len(lanes) != 5 {
			t.Fatalf("lane count changed: %d", len(lanes))
		}
		for n, v := range lanes {
			if v != lanes[0] {
				t.Fatalf("lane %d skewed: %v vs %v", n, v, lanes[0])
			}
		}
	}
}

func TestIssuerDrivesWire(t *testing.T) {
	testlog.Start(t)
	d, err := domain.New("command")
	if err != nil {
		t.Fatalf("new domain: %v", err)
	}
	dec := NewDecoder()
	iss, err := NewIssuer(dec, 1)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	var w domain.Wire
	iss.Drive(&w)
	d.Register(dec, iss)

	dec.Offer(Command{Code: 0b000000100, Valid: true})
	d.Step()
	d.Step()
	if !w.Sample() {
		t.Fatalf("wire does not follow the registered line")
	}
	if !iss.Observe() {
		t.Fatalf("observe does not follow the registered line")
	}
	d.Reset()
	if w.Sample() {
		t.Fatalf("reset left the wire high")
	}
}
