// Copyright 2015 Light Code Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package accesslog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeFormat is ISO-8601 UTC with millisecond precision, the format
// START_TIME (and the TLS certificate validity directives) fall back to
// when no pattern is given — spec.md §6's default time format, the same
// shape as httpserver/replacer.go's timeFormatISOUTC constant generalized
// to millisecond precision.
const DefaultTimeFormat = "2006-01-02T15:04:05.000Z"

func formatDefaultTime(t time.Time) string {
	return t.UTC().Format(DefaultTimeFormat)
}

// startTimeNewlinePattern is the one disallowed strftime subpattern
// (spec.md §4.1): a directive that would emit a literal newline.
var startTimeNewlinePattern = regexp.MustCompile(`%[-_0^#]*[1-9]*n`)

// containsNewlinePattern reports whether pattern contains the disallowed
// strftime subpattern.
func containsNewlinePattern(pattern string) bool {
	return startTimeNewlinePattern.MatchString(pattern)
}

// formatStrftime renders t using a small strftime-like subset, the same
// subset Envoy's AccessLogDateTimeFormatter supports plus the extended
// %N / %[1-9]N subsecond specifier spec.md §4.2 calls for. Unrecognized "%x"
// sequences pass through literally rather than erroring — compile-time
// validation already rejected the one pattern shape that matters
// (containsNewlinePattern).
func formatStrftime(t time.Time, pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' || i == len(runes)-1 {
			b.WriteRune(runes[i])
			continue
		}
		i++
		// %[1-9]N is the millisecond-subsecond extension: %3N means 3
		// fractional digits, %N alone means all 9 (nanosecond) digits.
		if runes[i] == 'N' || (runes[i] >= '1' && runes[i] <= '9' && i+1 < len(runes) && runes[i+1] == 'N') {
			digits := 9
			if runes[i] != 'N' {
				digits, _ = strconv.Atoi(string(runes[i]))
				i++ // consume the digit, leaving 'N' to be consumed below
			}
			frac := fmt.Sprintf("%09d", t.Nanosecond())
			if digits < 9 {
				frac = frac[:digits]
			}
			b.WriteString(frac)
			continue
		}
		switch runes[i] {
		case 'Y':
			b.WriteString(t.Format("2006"))
		case 'm':
			b.WriteString(t.Format("01"))
		case 'd':
			b.WriteString(t.Format("02"))
		case 'H':
			b.WriteString(t.Format("15"))
		case 'M':
			b.WriteString(t.Format("04"))
		case 'S':
			b.WriteString(t.Format("05"))
		case 'z':
			b.WriteString(t.Format("-0700"))
		case 'Z':
			b.WriteString(t.Format("MST"))
		case 'j':
			b.WriteString(fmt.Sprintf("%03d", t.YearDay()))
		case 's':
			b.WriteString(strconv.FormatInt(t.Unix(), 10))
		case 'e':
			b.WriteString(t.Format("_2"))
		case 'T':
			b.WriteString(t.Format("15:04:05"))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}
