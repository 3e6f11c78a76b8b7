package farfield

import (
	"errors"
	"fmt"
)

// ErrMalformedPatternFile is wrapped by every parse failure that prevents a
// grid from being built, e.g. sample counts that never appear in the header.
var ErrMalformedPatternFile = errors.New("malformed pattern file")

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedPatternFile, fmt.Sprintf(format, args...))
}

// TruncatedDataBlock reports a data block holding fewer records than the
// header announced. It is a diagnostic: the grid is still usable and the
// unread samples stay at zero field.
type TruncatedDataBlock struct {
	Expected int
	Read     int
	Line     int // 1-based line that ended the block, 0 at end of file
}

func (t TruncatedDataBlock) Error() string {
	if t.Line > 0 {
		return fmt.Sprintf("truncated data block: %d of %d records, stopped at line %d", t.Read, t.Expected, t.Line)
	}
	return fmt.Sprintf("truncated data block: %d of %d records", t.Read, t.Expected)
}
