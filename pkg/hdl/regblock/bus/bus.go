// Package bus implements the register-set-independent transaction state
// machines of the AXI4-Lite style slave shell: one machine per channel
// direction, both clocked by the same clock with a synchronous reset that
// forces the RESET state for one cycle. The machines are pure step functions
// over handshake inputs plus a decode callback, so the cycle-accurate
// simulator and the emitted RTL share one definition of the sequencing.
package bus

// Bus response code
type Resp uint8

const (
	Resp_Okay   Resp = 0
	Resp_ExOkay Resp = 1
	Resp_SlvErr Resp = 2
	Resp_DecErr Resp = 3
)

func (r Resp) String() string {
	switch r {
	case Resp_Okay:
		return "OKAY"
	case Resp_ExOkay:
		return "EXOKAY"
	case Resp_SlvErr:
		return "SLVERR"
	case Resp_DecErr:
		return "DECERR"
	}

	panic("unreachable")
}

// State of the write channel machine
type WriteState uint

const (
	WriteState_Reset WriteState = iota
	WriteState_Idle
	// Data arrived first, waiting for the address
	WriteState_AddrWait
	// Address arrived first, waiting for the data
	WriteState_DataWait
	WriteState_Request
	WriteState_Decode
	WriteState_Response
)

func (s WriteState) String() string {
	switch s {
	case WriteState_Reset:
		return "RESET"
	case WriteState_Idle:
		return "IDLE"
	case WriteState_AddrWait:
		return "ADDR_WAIT"
	case WriteState_DataWait:
		return "DATA_WAIT"
	case WriteState_Request:
		return "REQUEST"
	case WriteState_Decode:
		return "DECODE"
	case WriteState_Response:
		return "RESPONSE"
	}

	panic("unreachable")
}

// State of the read channel machine
type ReadState uint

const (
	ReadState_Reset ReadState = iota
	ReadState_Idle
	ReadState_Request
	ReadState_Decode
	ReadState_Response
)

func (s ReadState) String() string {
	switch s {
	case ReadState_Reset:
		return "RESET"
	case ReadState_Idle:
		return "IDLE"
	case ReadState_Request:
		return "REQUEST"
	case ReadState_Decode:
		return "DECODE"
	case ReadState_Response:
		return "RESPONSE"
	}

	panic("unreachable")
}

// Write channel inputs sampled on a clock edge
type WriteInputs struct {
	AddrValid bool
	Addr      uint64
	DataValid bool
	Data      uint64
	// Byte write strobes
	Strobe uint64
	// Downstream consumer ready to accept the response
	RespReady bool
}

// Write channel outputs for one cycle
type WriteOutputs struct {
	AddrReady bool
	DataReady bool
	// Asserted during the decode cycle: the latched address, data and strobe
	// are valid and the register file must apply the write
	WriteEnable bool
	Addr        uint64
	Data        uint64
	Strobe      uint64
	RespValid   bool
	Resp        Resp
}

// Write channel machine. Latency from acceptance of both handshakes to
// response assertion is a fixed 3 cycles (REQUEST, DECODE, RESPONSE); a new
// transaction may start every 3 cycles, no pipelining.
type WriteMachine struct {
	state WriteState
	addr  uint64
	data  uint64
	strb  uint64
	resp  Resp
}

func MakeWriteMachine() WriteMachine {
	return WriteMachine{state: WriteState_Reset}
}

// Forces the machine through the RESET state on the next step, regardless of
// what state it held before
func (m *WriteMachine) Reset() {
	m.state = WriteState_Reset
}

func (m *WriteMachine) State() WriteState {
	return m.state
}

// Advances the machine one clock. The writeAck callback is evaluated exactly
// once, during the DECODE cycle, against the latched write address; its
// result selects the response code (ack OKAY, no ack SLVERR).
func (m *WriteMachine) Step(in WriteInputs, writeAck func(addr uint64) bool) WriteOutputs {
	var out WriteOutputs

	switch m.state {
	case WriteState_Reset:
		m.state = WriteState_Idle

	case WriteState_Idle:
		out.AddrReady = true
		out.DataReady = true

		if in.AddrValid {
			m.addr = in.Addr
		}
		if in.DataValid {
			m.data = in.Data
			m.strb = in.Strobe
		}

		switch {
		case in.AddrValid && in.DataValid:
			m.state = WriteState_Request
		case in.AddrValid:
			m.state = WriteState_DataWait
		case in.DataValid:
			m.state = WriteState_AddrWait
		}

	case WriteState_AddrWait:
		out.AddrReady = true

		if in.AddrValid {
			m.addr = in.Addr
			m.state = WriteState_Request
		}

	case WriteState_DataWait:
		out.DataReady = true

		if in.DataValid {
			m.data = in.Data
			m.strb = in.Strobe
			m.state = WriteState_Request
		}

	case WriteState_Request:
		m.state = WriteState_Decode

	case WriteState_Decode:
		out.WriteEnable = true
		out.Addr = m.addr
		out.Data = m.data
		out.Strobe = m.strb

		if writeAck(m.addr) {
			m.resp = Resp_Okay
		} else {
			m.resp = Resp_SlvErr
		}

		m.state = WriteState_Response

	case WriteState_Response:
		out.RespValid = true
		out.Resp = m.resp

		if in.RespReady {
			m.state = WriteState_Idle
		}
	}

	return out
}

// Read channel inputs sampled on a clock edge
type ReadInputs struct {
	AddrValid bool
	Addr      uint64
	// Downstream consumer ready to accept the read data
	DataReady bool
}

// Read channel outputs for one cycle
type ReadOutputs struct {
	AddrReady bool
	DataValid bool
	Data      uint64
	Resp      Resp
}

// Read channel machine, structurally the write machine minus the second
// input channel. Same fixed 3 cycle latency.
type ReadMachine struct {
	state ReadState
	addr  uint64
	data  uint64
	resp  Resp
}

func MakeReadMachine() ReadMachine {
	return ReadMachine{state: ReadState_Reset}
}

// Forces the machine through the RESET state on the next step
func (m *ReadMachine) Reset() {
	m.state = ReadState_Reset
}

func (m *ReadMachine) State() ReadState {
	return m.state
}

// Advances the machine one clock. The decode callback is evaluated exactly
// once, during the DECODE cycle, against the latched read address: it
// returns the read value and the acknowledge. No ack latches SLVERR and the
// value is expected to be the decode error marker.
func (m *ReadMachine) Step(in ReadInputs, decode func(addr uint64) (uint64, bool)) ReadOutputs {
	var out ReadOutputs

	switch m.state {
	case ReadState_Reset:
		m.state = ReadState_Idle

	case ReadState_Idle:
		out.AddrReady = true

		if in.AddrValid {
			m.addr = in.Addr
			m.state = ReadState_Request
		}

	case ReadState_Request:
		// Fixed one cycle bubble matching the write machine's shape
		m.state = ReadState_Decode

	case ReadState_Decode:
		value, ack := decode(m.addr)
		m.data = value

		if ack {
			m.resp = Resp_Okay
		} else {
			m.resp = Resp_SlvErr
		}

		m.state = ReadState_Response

	case ReadState_Response:
		out.DataValid = true
		out.Data = m.data
		out.Resp = m.resp

		if in.DataReady {
			m.state = ReadState_Idle
		}
	}

	return out
}
