package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadDate is returned when a date field does not parse. Date parse
// failure drops the record; there is no silent defaulting.
var ErrBadDate = errors.New("unparseable date")

// CleanText normalizes extracted text: non-breaking spaces become ordinary
// spaces, all whitespace runs collapse to one space, and the result is
// trimmed. psp.cz pads dates and names with U+00A0 liberally.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// czechDateLayout parses day–month–year dates with dot separators. The
// layout tolerates both padded and unpadded day/month digits.
const czechDateLayout = "2.1.2006"

// ParseCzechDate parses a date like "18. 4. 2023" (with or without spaces
// or non-breaking spaces after the dots).
func ParseCzechDate(s string) (time.Time, error) {
	compact := strings.ReplaceAll(CleanText(s), " ", "")

	t, err := time.Parse(czechDateLayout, compact)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}

	return t, nil
}
