package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/atomicstack/cellcombo/internal/catalog"
)

// Kind selects the editor a column uses.
type Kind int

const (
	KindText Kind = iota
	KindFiltered
	KindChecked
)

func (k Kind) String() string {
	switch k {
	case KindFiltered:
		return "filtered"
	case KindChecked:
		return "checked"
	default:
		return "text"
	}
}

// Mask decides whether r may be typed into a text cell currently holding
// text. Rejected keystrokes are dropped silently.
type Mask func(text string, r rune) bool

// Validator checks a value before it is stored.
type Validator func(value string) error

// Column describes one grid column.
type Column struct {
	Key      string
	Title    string
	Width    int
	Kind     Kind
	ReadOnly bool
	Mask     Mask
	Validate Validator
	// Catalog backs dropdown columns. It is read when an edit session starts.
	Catalog *catalog.Catalog
}

// Digits accepts decimal digits only.
func Digits(_ string, r rune) bool {
	return unicode.IsDigit(r)
}

// Decimal accepts digits and a single '.' or ',' separator.
func Decimal(text string, r rune) bool {
	if unicode.IsDigit(r) {
		return true
	}
	if r != '.' && r != ',' {
		return false
	}
	return !strings.ContainsAny(text, ".,")
}

// ErrOutOfRange is wrapped by validators rejecting numeric values.
var ErrOutOfRange = errors.New("value out of range")

// Below accepts empty values and integers smaller than limit.
func Below(limit int) Validator {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%q is not a whole number", value)
		}
		if n >= limit {
			return fmt.Errorf("%d must be below %d: %w", n, limit, ErrOutOfRange)
		}
		return nil
	}
}
