/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package size provides a Size type expressing byte counts with binary
// (1024-based) unit constants and human readable parsing/formatting.
package size

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is a byte count. The zero value is SizeNul.
type Size uint64

const (
	SizeNul  Size = 0
	SizeUnit Size = 1
	SizeKilo Size = SizeUnit << 10
	SizeMega Size = SizeKilo << 10
	SizeGiga Size = SizeMega << 10
	SizeTera Size = SizeGiga << 10
	SizePeta Size = SizeTera << 10
	SizeExa  Size = SizePeta << 10
)

var units = []struct {
	suffix string
	size   Size
}{
	{"EB", SizeExa},
	{"PB", SizePeta},
	{"TB", SizeTera},
	{"GB", SizeGiga},
	{"MB", SizeMega},
	{"KB", SizeKilo},
}

// String formats the size using the largest binary unit that keeps the
// value above one, with two decimal digits of precision.
func (s Size) String() string {
	for _, u := range units {
		if s >= u.size {
			return fmt.Sprintf("%.2f%s", float64(s)/float64(u.size), u.suffix)
		}
	}

	return fmt.Sprintf("%dB", uint64(s))
}

func (s Size) Uint64() uint64 {
	return uint64(s)
}

func (s Size) Int64() int64 {
	if s.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(s)
}

func (s Size) Float64() float64 {
	return float64(s)
}

// Parse decodes a human readable size such as "5MB", "1.5GB" or the
// compound form "1GB500MB". Bare numbers and negative values are rejected.
func Parse(val string) (Size, error) {
	v := strings.TrimSpace(val)
	v = strings.Trim(v, `"'`)
	v = strings.TrimSpace(v)

	if v == "" {
		return SizeNul, fmt.Errorf("size: empty value")
	}

	if strings.HasPrefix(v, "-") {
		return SizeNul, fmt.Errorf("size: negative value not allowed: %q", val)
	}

	v = strings.TrimPrefix(v, "+")

	var (
		total   float64
		matched bool
		rest    = v
	)

	for len(rest) > 0 {
		numEnd := 0
		seenDot := false

		for numEnd < len(rest) && (isDigit(rest[numEnd]) || (rest[numEnd] == '.' && !seenDot)) {
			if rest[numEnd] == '.' {
				seenDot = true
			}
			numEnd++
		}

		if numEnd == 0 {
			return SizeNul, fmt.Errorf("size: invalid value: %q", val)
		}

		numStr := rest[:numEnd]
		if strings.HasSuffix(numStr, ".") {
			return SizeNul, fmt.Errorf("size: invalid value: %q", val)
		}

		rest = rest[numEnd:]

		unitEnd := 0
		for unitEnd < len(rest) && isAlpha(rest[unitEnd]) {
			unitEnd++
		}

		unitStr := strings.ToUpper(rest[:unitEnd])
		rest = rest[unitEnd:]

		if unitStr == "" {
			return SizeNul, fmt.Errorf("size: missing unit in: %q", val)
		}

		mult, ok := unitMultiplier(unitStr)
		if !ok {
			return SizeNul, fmt.Errorf("size: unknown unit %q in %q", unitStr, val)
		}

		n, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return SizeNul, fmt.Errorf("size: invalid numeric value %q: %w", numStr, err)
		}

		total += n * float64(mult)
		matched = true
	}

	if !matched {
		return SizeNul, fmt.Errorf("size: invalid value: %q", val)
	}

	return Size(total), nil
}

func unitMultiplier(u string) (Size, bool) {
	switch u {
	case "B":
		return SizeUnit, true
	case "K", "KB":
		return SizeKilo, true
	case "M", "MB":
		return SizeMega, true
	case "G", "GB":
		return SizeGiga, true
	case "T", "TB":
		return SizeTera, true
	case "P", "PB":
		return SizePeta, true
	case "E", "EB":
		return SizeExa, true
	default:
		return SizeNul, false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
