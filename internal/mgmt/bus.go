package mgmt

// AddrMask bounds the 6-bit register address space.
const AddrMask uint8 = 0x3F

// BusRequest is one management bus access: an address, one strobe, and
// write data when the write strobe is set.
type BusRequest struct {
	Addr      uint8
	Read      bool
	Write     bool
	WriteData uint32
}

// BusReply is the device's answer. WaitRequest asks the master to hold
// the request and retry.
type BusReply struct {
	ReadData    uint32
	WaitRequest bool
}

// Device is a register-reconfiguration target behind the bus. A real
// synthesizer adapter implements this; the core never assumes more
// than the request/reply contract.
type Device interface {
	Access(req BusRequest) BusReply
}

// StubDevice terminates the bus with no hardware behind it:
// wait-request held low, reads return zero.
type StubDevice struct{}

func (StubDevice) Access(BusRequest) BusReply { return BusReply{} }
