package mgmt

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/resetctl/internal/cdc"
)

// ConfigWord is one synthesizer configuration word tagged with its
// register address, as carried over the cross-domain transfer.
type ConfigWord struct {
	Addr  uint8
	Value uint32
}

// WordFromPair unpacks a transfer pair published by an Adapter.
func WordFromPair(p cdc.Pair) ConfigWord {
	return ConfigWord{Addr: uint8(p.A) & AddrMask, Value: p.B}
}

// Adapter services management bus requests in the bus domain and
// forwards configuration writes to the issuing domain through one side
// of a dual-item transfer. It adds no logic of its own beyond register
// staging across the boundary.
type Adapter struct {
	side *cdc.Side
	dev  Device
}

func NewAdapter(side *cdc.Side, dev Device) *Adapter {
	if dev == nil {
		dev = StubDevice{}
	}
	return &Adapter{side: side, dev: dev}
}

// Apply services one bus request. A write whose previous word is still
// crossing the boundary answers with wait-request asserted so the
// master re-drives the access.
func (a *Adapter) Apply(req BusRequest) BusReply {
	req.Addr &= AddrMask
	if req.Write {
		if err := a.side.Publish(uint32(req.Addr), req.WriteData); err != nil {
			if errors.Is(err, cdc.ErrSlotBusy) {
				return BusReply{WaitRequest: true}
			}
			log.Error().Err(err).Uint8("addr", req.Addr).Msg("mgmt_publish")
			return BusReply{WaitRequest: true}
		}
		log.Debug().Uint8("addr", req.Addr).Uint32("data", req.WriteData).Msg("mgmt_write")
	}
	return a.dev.Access(req)
}

// Reply returns the last word the issuing domain sent back across the
// boundary.
func (a *Adapter) Reply() ConfigWord {
	return WordFromPair(a.side.Peek())
}
