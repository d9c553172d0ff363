package device

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"
	"golang.org/x/sys/unix"
)

// pollIn is the event mask PollDescriptors reports: readiness for input,
// the only condition the scheduler's wait routine ever waits on.
const pollIn = int16(unix.POLLIN)

// GoMIDI is a Device backed by gitlab.com/gomidi/midi/v2 output and input
// ports. gomidi/v2's drivers.In is callback-driven (Listen registers a
// function called from a driver-owned goroutine for every received
// message), which doesn't match the descriptor-based poll model the
// Device interface asks for. GoMIDI bridges the two: every byte
// gomidi delivers is written into the write end of an os.Pipe, and the
// pipe's read end's file descriptor is what PollDescriptors exposes, so
// the engine's poll loop (device.Poll, built on unix.Poll) sees input
// readiness exactly as it would against a raw device file.
type GoMIDI struct {
	inName, outName string

	in  drivers.In
	out drivers.Out

	pipeR *os.File
	pipeW *os.File
	stop  func()

	mu sync.Mutex
}

// NewGoMIDI returns a Device that sends and receives on the named MIDI
// input and output ports. Port names are matched against drivers.Ins()
// and drivers.Outs(), the same lookup-by-name approach used to forward
// between named ports elsewhere in the MIDI tooling this is grounded on.
// An empty name means "the first available port", matching the original
// program's mio_open(MIO_PORTANY, ...) call, which opens whatever default
// device sndio picks rather than asking the user to name one.
func NewGoMIDI(inName, outName string) *GoMIDI {
	return &GoMIDI{inName: inName, outName: outName}
}

func (g *GoMIDI) Open(ctx context.Context) error {
	ins, e := drivers.Ins()
	if e != nil {
		return fmt.Errorf("listing MIDI inputs: %w", e)
	}
	outs, e := drivers.Outs()
	if e != nil {
		return fmt.Errorf("listing MIDI outputs: %w", e)
	}

	var in drivers.In
	if g.inName == "" {
		if len(ins) > 0 {
			in = ins[0]
		}
	} else {
		for _, candidate := range ins {
			if candidate.String() == g.inName {
				in = candidate
				break
			}
		}
	}
	if in == nil {
		return fmt.Errorf("MIDI input port %q not found", g.inName)
	}

	var out drivers.Out
	if g.outName == "" {
		if len(outs) > 0 {
			out = outs[0]
		}
	} else {
		for _, candidate := range outs {
			if candidate.String() == g.outName {
				out = candidate
				break
			}
		}
	}
	if out == nil {
		return fmt.Errorf("MIDI output port %q not found", g.outName)
	}

	if e := in.Open(); e != nil {
		return fmt.Errorf("opening MIDI input port %q: %w", g.inName, e)
	}
	if e := out.Open(); e != nil {
		in.Close()
		return fmt.Errorf("opening MIDI output port %q: %w", g.outName, e)
	}

	pipeR, pipeW, e := os.Pipe()
	if e != nil {
		in.Close()
		out.Close()
		return fmt.Errorf("creating input bridge pipe: %w", e)
	}

	stop, e := in.Listen(func(msg []byte, timestampms int32) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.pipeW == nil {
			return
		}
		// The write error is ignored. If the pipe is full the write
		// blocks the driver's delivery goroutine (with g.mu held) until
		// the engine reads; no bytes are dropped.
		g.pipeW.Write(msg)
	}, drivers.ListenConfig{})
	if e != nil {
		pipeR.Close()
		pipeW.Close()
		in.Close()
		out.Close()
		return fmt.Errorf("listening on MIDI input port %q: %w", g.inName, e)
	}

	g.in, g.out = in, out
	g.pipeR, g.pipeW = pipeR, pipeW
	g.stop = stop
	return nil
}

func (g *GoMIDI) Close() error {
	if g.stop != nil {
		g.stop()
	}
	g.mu.Lock()
	w := g.pipeW
	g.pipeW = nil
	g.mu.Unlock()
	if w != nil {
		w.Close()
	}
	if g.pipeR != nil {
		g.pipeR.Close()
	}
	if g.in != nil {
		g.in.Close()
	}
	if g.out != nil {
		g.out.Close()
	}
	return nil
}

func (g *GoMIDI) PollDescriptors() ([]PollDescriptor, error) {
	if g.pipeR == nil {
		return nil, fmt.Errorf("device not open")
	}
	return []PollDescriptor{{FD: int(g.pipeR.Fd()), Events: pollIn}}, nil
}

func (g *GoMIDI) Write(p []byte) (int, error) {
	if e := g.out.Send(p); e != nil {
		return 0, fmt.Errorf("sending MIDI output: %w", e)
	}
	return len(p), nil
}

func (g *GoMIDI) Read(p []byte) (int, error) {
	return g.pipeR.Read(p)
}
