package particle

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindConst valueKind = iota
	kindRange
	kindChoice
	kindString
	kindStringChoice
)

// Value is an authored value description: a constant, a [lo, hi] interval sampled
// uniformly, or a set of discrete options picked uniformly. Numbers and
// strings are kept apart; only the composite attribute takes strings.
//
// The zero Value is the constant 0.
type Value struct {
	kind   valueKind
	num    float64
	lo, hi float64
	nums   []float64
	str    string
	strs   []string
}

// Const returns a constant numeric value.
func Const(v float64) Value {
	return Value{kind: kindConst, num: v}
}

// Range returns an interval sampled uniformly in [lo, hi).
func Range(lo, hi float64) Value {
	return Value{kind: kindRange, lo: lo, hi: hi}
}

// Choice returns a set of numeric options. An empty set behaves as Const(0).
func Choice(options ...float64) Value {
	if len(options) == 0 {
		return Const(0)
	}
	return Value{kind: kindChoice, nums: append([]float64(nil), options...)}
}

// Str returns a constant string value.
func Str(s string) Value {
	return Value{kind: kindString, str: s}
}

// OneOf returns a set of string options. An empty set behaves as Str("").
func OneOf(options ...string) Value {
	if len(options) == 0 {
		return Str("")
	}
	return Value{kind: kindStringChoice, strs: append([]string(nil), options...)}
}

// IsString reports whether the value produces strings.
func (v Value) IsString() bool {
	return v.kind == kindString || v.kind == kindStringChoice
}

// Sample resolves a numeric value. String values sample as 0.
func (v Value) Sample() float64 {
	switch v.kind {
	case kindRange:
		return v.lo + rand.Float64()*(v.hi-v.lo)
	case kindChoice:
		return v.nums[rand.Intn(len(v.nums))]
	case kindConst:
		return v.num
	}
	return 0
}

// SampleString resolves a string value. Numeric values sample as "".
func (v Value) SampleString() string {
	switch v.kind {
	case kindStringChoice:
		return v.strs[rand.Intn(len(v.strs))]
	case kindString:
		return v.str
	}
	return ""
}

// options lists every string the value can produce.
func (v Value) options() []string {
	switch v.kind {
	case kindString:
		return []string{v.str}
	case kindStringChoice:
		return v.strs
	}
	return nil
}

// String formats the value in the notation ParseValue reads.
func (v Value) String() string {
	switch v.kind {
	case kindRange:
		return "[" + formatFloat(v.lo) + " " + formatFloat(v.hi) + "]"
	case kindChoice:
		parts := make([]string, len(v.nums))
		for i, n := range v.nums {
			parts[i] = formatFloat(n)
		}
		return "{" + strings.Join(parts, "|") + "}"
	case kindString:
		return v.str
	case kindStringChoice:
		return "{" + strings.Join(v.strs, "|") + "}"
	}
	return formatFloat(v.num)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseValue parses the text notation for value descriptions:
//   - Constant: "1500", "-0.5"
//   - Interval: "[0.7 0.9]" (a single "[3]" is the constant 3)
//   - Set: "{lighter|source-over}" or "{1|2|4}"; numeric when every option parses as a number
//   - Anything else is a string constant: "lighter"
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("empty value")
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Value{}, fmt.Errorf("unterminated interval %q", s)
		}
		parts := strings.Fields(strings.Trim(s, "[]"))
		switch len(parts) {
		case 1:
			val, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Value{}, fmt.Errorf("invalid interval %q: %w", s, err)
			}
			return Const(val), nil
		case 2:
			lo, err1 := strconv.ParseFloat(parts[0], 64)
			hi, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return Value{}, fmt.Errorf("invalid interval %q", s)
			}
			return Range(lo, hi), nil
		}
		return Value{}, fmt.Errorf("interval %q needs one or two numbers", s)
	}

	if strings.HasPrefix(s, "{") {
		if !strings.HasSuffix(s, "}") {
			return Value{}, fmt.Errorf("unterminated set %q", s)
		}
		var opts []string
		for _, part := range strings.Split(strings.Trim(s, "{}"), "|") {
			if part = strings.TrimSpace(part); part != "" {
				opts = append(opts, part)
			}
		}
		if len(opts) == 0 {
			return Value{}, fmt.Errorf("empty set %q", s)
		}

		nums := make([]float64, 0, len(opts))
		for _, o := range opts {
			n, err := strconv.ParseFloat(o, 64)
			if err != nil {
				// 任一选项不是数字则整体按字符串集合处理
				return OneOf(opts...), nil
			}
			nums = append(nums, n)
		}
		return Choice(nums...), nil
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return Const(n), nil
	}
	return Str(s), nil
}

// RandomInRange returns a random float64 in the range [min, max].
func RandomInRange(min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rand.Float64()*(max-min)
}
