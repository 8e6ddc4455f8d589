package gainmap

// Detector geometry. The x axis is read out by two segments of RIGHT_OFFSET
// channels each; the right one is shifted into [RIGHT_OFFSET, NX).
const (
	NX           = 224
	NY           = 160
	NPIXELS      = NX * NY
	RIGHT_OFFSET = 112
	NADC         = 4
	ADC_BAND     = NX / NADC
	N_HEADER     = 3
)

type ChannelList []int

// EventRecord is one decoded line of a gain scan file.
type EventRecord struct {
	Header     [N_HEADER]string
	XLeft      ChannelList
	YLeft      ChannelList
	XRight     ChannelList
	YRight     ChannelList
	Amplitudes [NADC]float64
}

type EventStatus int

const (
	EventAccepted EventStatus = iota
	EventMalformed
	EventNoHit
	EventAmbiguous
	EventDoubleHit
	EventOutOfRange
	EventSideMismatch
)

func (s EventStatus) String() string {
	switch s {
	case EventAccepted:
		return "accepted"
	case EventMalformed:
		return "malformed"
	case EventNoHit:
		return "no-hit"
	case EventAmbiguous:
		return "ambiguous"
	case EventDoubleHit:
		return "double-hit"
	case EventOutOfRange:
		return "out-of-range"
	case EventSideMismatch:
		return "side-mismatch"
	default:
		return "unknown"
	}
}
