package disasm

import "fmt"

// AnomalyKind is the type of a decoding anomaly.
type AnomalyKind int

// Decoding anomalies.
const (
	IllegalOpcode   AnomalyKind = iota // control byte without table entry, skipped
	TruncatedStream                    // stream ended inside the header or an instruction
)

func (k AnomalyKind) String() string {
	switch k {
	case IllegalOpcode:
		return "illegal opcode"
	case TruncatedStream:
		return "truncated stream"
	default:
		return fmt.Sprintf("anomaly(%d)", int(k))
	}
}

// Anomaly is a recoverable problem found while decoding.
type Anomaly struct {
	Kind   AnomalyKind
	Offset int    // stream position of the affected control byte
	Data   []byte // bytes that were consumed for it
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s at offset %d: % X", a.Kind, a.Offset, a.Data)
}

// Result summarizes a decoded stream.
type Result struct {
	Origin    uint16 // load address from the header
	HasOrigin bool

	Instructions int // number of decoded instructions
	Bytes        int // number of bytes consumed from the stream
	Lines        int // number of listing lines written to the sink
	Anomalies    []Anomaly
}

// Count returns the number of anomalies of the given kind.
func (r Result) Count(kind AnomalyKind) int {
	var n int
	for _, a := range r.Anomalies {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// TruncatedStreamError is returned when the stream ends inside the origin header.
type TruncatedStreamError struct {
	Offset    int
	Expected  int
	Available int
	Header    bool
}

func (e *TruncatedStreamError) Error() string {
	what := "instruction"
	if e.Header {
		what = "header"
	}
	return fmt.Sprintf("truncated %s at offset %d: expected %d bytes, %d available",
		what, e.Offset, e.Expected, e.Available)
}
