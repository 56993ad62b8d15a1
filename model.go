package coexsim

//
// Data model
//

// Logger is the logger used throughout this package.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Debug emits a debug message.
	Debug(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)
}

// nullLogger is the package-private default used when a node or
// [Channel] is built with a nil [Logger]. internal.NullLogger serves the
// same purpose for external callers; this package cannot import
// internal without an import cycle.
type nullLogger struct{}

func (*nullLogger) Debugf(string, ...any) {}
func (*nullLogger) Debug(string)          {}
func (*nullLogger) Infof(string, ...any)  {}
func (*nullLogger) Info(string)           {}
func (*nullLogger) Warnf(string, ...any)  {}
func (*nullLogger) Warn(string)           {}

var _ Logger = (*nullLogger)(nil)

// Packet is a unit of data queued by a [WifiStation] or [NRUGnb] awaiting
// transmission. Only its generation time is used by the simulation, to
// compute per-packet latency once the carrying frame succeeds.
type Packet struct {
	// ID identifies the packet within its owning node.
	ID int

	// GenTime is the simulated time, in microseconds, at which the
	// packet was generated and enqueued.
	GenTime int64

	// PayloadSize is the packet payload size in bytes.
	PayloadSize int
}

// Frame is a Wi-Fi DCF transmission attempt.
type Frame struct {
	// FrameTime is the fixed transmission duration in microseconds.
	FrameTime int64

	// StationName identifies the owning station.
	StationName string

	// DataSize is the payload size in bytes.
	DataSize int

	// GenTime is the simulated time at which this frame was created.
	GenTime int64

	// Retries counts how many times this exact frame has collided.
	Retries int

	// Start and End are the simulated start/end timestamps of the data
	// portion of the successful attempt; only delivered frames are
	// recorded.
	Start, End int64
}

// Transmission is an NR-U LBT Cat-4 transmission attempt.
type Transmission struct {
	// Total is the total duration in microseconds (MCOT * 1000).
	Total int64

	// GnbName identifies the owning gNB.
	GnbName string

	// Start is the simulated time at which this transmission began
	// (including any reservation-signal prefix).
	Start int64

	// Airtime is the data-only portion of Total (Total - RS).
	Airtime int64

	// RS is the reservation-signal prefix duration (zero in gap mode).
	RS int64

	// Retries counts how many times this exact transmission has collided.
	Retries int

	// End is the simulated end timestamp.
	End int64
}

// FrameTimeFunc computes the transmission duration, in microseconds, of a
// Wi-Fi frame given a payload size in bytes and an MCS index. It is an
// external collaborator: this package treats it as an opaque time source,
// per spec.md's scope note on PHY data-rate tables and frame-time
// arithmetic.
type FrameTimeFunc func(payloadSize, mcs int) int64
