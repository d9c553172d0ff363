package midi

import "fmt"

// Header holds the parsed fields of an SMF MThd chunk.
type Header struct {
	// TrackCount is the number of MTrk chunks that follow the header.
	TrackCount uint16
	// TicksPerQuarterNote is the header's division field, already
	// validated to represent ticks-per-quarter-note timing (not SMPTE) and
	// to be non-zero.
	TicksPerQuarterNote uint16
}

// ParseHeader reads and validates an MThd chunk from r. It requires
// format 1, a header length of at least 6, and a non-SMPTE, non-zero
// ticks-per-quarter-note division. Any header bytes beyond the first six
// (which is all ParseHeader itself consumes) are skipped.
func ParseHeader(r *ByteReader) (Header, error) {
	magic, e := r.ReadExact(4)
	if e != nil {
		return Header{}, fmt.Errorf("reading SMF header magic: %w", e)
	}
	if string(magic) != "MThd" {
		return Header{}, fmt.Errorf("%w: expected \"MThd\", got %q",
			ErrBadMagic, magic)
	}

	length, e := r.ReadUint32BE()
	if e != nil {
		return Header{}, fmt.Errorf("reading SMF header length: %w", e)
	}
	if length < 6 {
		return Header{}, fmt.Errorf("%w: header length %d is less than 6",
			ErrBadFormat, length)
	}

	format, e := r.ReadUint16BE()
	if e != nil {
		return Header{}, fmt.Errorf("reading SMF format: %w", e)
	}
	if format != 1 {
		return Header{}, fmt.Errorf("%w: only format 1 is supported, got %d",
			ErrBadFormat, format)
	}

	trackCount, e := r.ReadUint16BE()
	if e != nil {
		return Header{}, fmt.Errorf("reading SMF track count: %w", e)
	}

	division, e := r.ReadUint16BE()
	if e != nil {
		return Header{}, fmt.Errorf("reading SMF division: %w", e)
	}
	if division&0x8000 != 0 {
		return Header{}, fmt.Errorf("%w: SMPTE-style delta-time units not supported",
			ErrUnsupportedDivision)
	}
	if division == 0 {
		return Header{}, fmt.Errorf("%w", ErrZeroDivision)
	}

	if e := r.Skip(length - 6); e != nil {
		return Header{}, fmt.Errorf("skipping remainder of SMF header: %w", e)
	}

	return Header{
		TrackCount:          trackCount,
		TicksPerQuarterNote: division,
	}, nil
}
