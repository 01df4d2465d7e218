package merge

import "time"

// DefaultNotesSeparator sits between current and imported notes when both
// sides carry different text.
const DefaultNotesSeparator = "\n\n— Imported —\n\n"

type options struct {
	notesSeparator string
	now            func() time.Time
}

// Option configures a merge.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		notesSeparator: DefaultNotesSeparator,
		now:            time.Now,
	}
}

// WithNotesSeparator overrides the marker inserted between concatenated notes.
func WithNotesSeparator(sep string) Option {
	return func(o *options) {
		o.notesSeparator = sep
	}
}

// WithClock sets the time source used when incoming carries no updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
