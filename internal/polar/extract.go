package polar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyPolar is returned when no sample survives extraction.
var ErrEmptyPolar = errors.New("no valid polar samples")

// State is a stall state machine state.
type State int

const (
	PreStall State = iota
	PostStall
	Terminated
)

func (s State) String() string {
	switch s {
	case PreStall:
		return "PRE_STALL"
	case PostStall:
		return "POST_STALL"
	case Terminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Report summarizes one extraction.
type Report struct {
	Lines int
	// Skipped counts lines by reason. Lines after termination are not
	// examined and appear nowhere.
	Skipped map[SkipReason]int
	Final   State
}

// SkippedTotal returns the number of skipped lines.
func (r Report) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// Polar is a validated polar: the retained samples in scan order.
type Polar struct {
	Samples []Sample
	Report  Report
}

// machine is the stall state machine.
type machine struct {
	state   State
	samples []Sample
}

// feed applies one transition for the pair (cur, next).
func (m *machine) feed(cur Sample, nextCl float64) {
	switch m.state {
	case PreStall:
		m.samples = append(m.samples, cur)
		if cur.Cl >= nextCl {
			m.state = PostStall
		}
	case PostStall:
		m.samples = append(m.samples, cur)
		if cur.Cl < nextCl {
			m.state = Terminated
		}
	}
}

// Extract runs the stall state machine over lines. It returns ErrEmptyPolar,
// together with the report, when nothing survives.
func Extract(lines []string) (*Polar, error) {
	m := &machine{state: PreStall}
	report := Report{Lines: len(lines), Skipped: make(map[SkipReason]int)}

	if len(lines) > 0 {
		cur, curReason := ParseLine(lines[0])
		for i := 0; i+1 < len(lines) && m.state != Terminated; i++ {
			next, nextReason := ParseLine(lines[i+1])
			switch {
			case curReason != SkipNone:
				report.Skipped[curReason]++
			case nextReason != SkipNone:
				report.Skipped[SkipNoSuccessor]++
			default:
				m.feed(cur, next.Cl)
			}
			cur, curReason = next, nextReason
		}

		// The last line never has a successor.
		if m.state != Terminated {
			if curReason == SkipNone {
				report.Skipped[SkipNoSuccessor]++
			} else {
				report.Skipped[curReason]++
			}
		}
	}

	for reason, n := range report.Skipped {
		if n == 0 {
			delete(report.Skipped, reason)
		}
	}
	report.Final = m.state

	p := &Polar{Samples: m.samples, Report: report}
	if len(p.Samples) == 0 {
		return p, fmt.Errorf("%w: %d lines scanned", ErrEmptyPolar, report.Lines)
	}
	return p, nil
}

// Read extracts a polar from r. Over-long lines are kept only up to
// MaxLineBytes+1 bytes so that they are skipped like any other noise.
func Read(r io.Reader) (*Polar, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading polar: %w", err)
		}
		lines = append(lines, line)
	}
	return Extract(lines)
}

// readLine returns the next line without its terminator, truncated to
// MaxLineBytes+1 bytes.
func readLine(br *bufio.Reader) (string, error) {
	var buf []byte
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", err
		}
		if room := MaxLineBytes + 1 - len(buf); room > 0 {
			if len(frag) > room {
				frag = frag[:room]
			}
			buf = append(buf, frag...)
		}
		if !isPrefix {
			return string(buf), nil
		}
	}
}

// ReadFile extracts a polar from the artifact at path.
func ReadFile(path string) (*Polar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening polar artifact: %w", err)
	}
	defer f.Close()
	return Read(f)
}
