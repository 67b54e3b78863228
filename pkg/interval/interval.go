package interval

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidInterval is returned when an interval's low endpoint is greater
// than its high endpoint.
var ErrInvalidInterval = errors.New("invalid interval")

// Interval marks a closed integer range [Low, High].
type Interval struct {
	Low  int64
	High int64
}

// NewInterval returns a new Interval or an error if high is before low.
func NewInterval(low, high int64) (Interval, error) {
	i := Interval{Low: low, High: high}
	if err := i.Validate(); err != nil {
		return Interval{}, err
	}
	return i, nil
}

// Validate reports ErrInvalidInterval when Low > High.
func (i Interval) Validate() error {
	if i.Low > i.High {
		return errors.Wrapf(ErrInvalidInterval, "low %d is greater than high %d", i.Low, i.High)
	}
	return nil
}

// Less orders intervals by low endpoint, then by high endpoint.
func (i Interval) Less(x Interval) bool {
	return i.Low < x.Low || i.Low == x.Low && i.High < x.High
}

// Overlaps reports whether the two closed intervals share at least one point.
func (i Interval) Overlaps(x Interval) bool {
	return i.Low <= x.High && x.Low <= i.High
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d]", i.Low, i.High)
}
