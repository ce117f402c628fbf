package register

import "fmt"

// Field describes a contiguous bit range inside a 64-bit register word.
// Lo is the index of the least significant bit, Width the number of bits.
type Field struct {
	Name  string
	Lo    uint
	Width uint
}

// Bit returns a single-bit field at position n.
func Bit(name string, n uint) Field { return Field{Name: name, Lo: n, Width: 1} }

// Range returns the field covering bits hi..lo inclusive, the way the
// Intel SDM writes them.
func Range(name string, hi, lo uint) Field {
	return Field{Name: name, Lo: lo, Width: hi - lo + 1}
}

// Mask returns the field mask in place (not shifted down).
func (f Field) Mask() uint64 {
	return f.Max() << f.Lo
}

// Max is the largest value the field can hold.
func (f Field) Max() uint64 {
	if f.Width >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<f.Width - 1
}

// Get extracts the field from word.
func (f Field) Get(word uint64) uint64 {
	return (word >> f.Lo) & f.Max()
}

// Set returns word with the field replaced by v. Bits outside the field are
// left untouched. v must fit in the field width.
func (f Field) Set(word, v uint64) (uint64, error) {
	if v > f.Max() {
		return word, &RangeError{Field: f.Name, Value: v, Width: f.Width}
	}
	return word&^f.Mask() | v<<f.Lo, nil
}

// Flag reports whether a one-bit field is set.
func (f Field) Flag(word uint64) bool { return f.Get(word) != 0 }

// SetFlag returns word with the one-bit field set or cleared.
func (f Field) SetFlag(word uint64, on bool) uint64 {
	if on {
		return word | f.Mask()
	}
	return word &^ f.Mask()
}

func (f Field) String() string {
	if f.Width == 1 {
		return fmt.Sprintf("%s[%d]", f.Name, f.Lo)
	}
	return fmt.Sprintf("%s[%d:%d]", f.Name, f.Lo+f.Width-1, f.Lo)
}

// RangeError is returned when a value does not fit in a field.
type RangeError struct {
	Field string
	Value uint64
	Width uint
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("register: value %d does not fit in %d-bit field %s", e.Value, e.Width, e.Field)
}
