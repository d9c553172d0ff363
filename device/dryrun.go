package device

import "context"

// DryRun is a no-op Device used when lightplay is run with -n: all device
// calls are suppressed. Writes report success without
// sending anything, and reads always report input closed, since a
// dry-run's scheduler never actually waits on pending notes (see
// engine.Scheduler's dry-run handling) and so should never call Read.
type DryRun struct{}

// NewDryRun returns a DryRun device.
func NewDryRun() *DryRun {
	return &DryRun{}
}

func (d *DryRun) Open(ctx context.Context) error { return nil }

func (d *DryRun) Close() error { return nil }

func (d *DryRun) PollDescriptors() ([]PollDescriptor, error) {
	return nil, nil
}

func (d *DryRun) Write(p []byte) (int, error) {
	return len(p), nil
}

func (d *DryRun) Read(p []byte) (int, error) {
	return 0, nil
}
