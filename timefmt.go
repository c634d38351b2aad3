package logvision

import (
	"strconv"
	"strings"
	"time"
)

// Pattern tokens, longest first so that "YYYY" wins over "YY".
var dateTokens = []string{
	"YYYY", "SSS", "ZZ", "YY", "MM", "DD", "HH", "hh", "mm", "ss",
	"M", "D", "H", "h", "m", "s", "A", "a", "Z",
}

// formatTimestamp renders t with a dayjs-style pattern such as
// "YYYY-MM-DD HH:mm:ss". Text inside square brackets is copied literally and
// any character that is not part of a token is copied through.
func formatTimestamp(t time.Time, pattern string) string {
	var sb strings.Builder
	sb.Grow(len(pattern) + 8)

	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			if end := strings.IndexByte(pattern[i+1:], ']'); end >= 0 {
				sb.WriteString(pattern[i+1 : i+1+end])
				i += end + 2
				continue
			}
		}
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(pattern[i:], tok) {
				appendToken(&sb, t, tok)
				i += len(tok)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(pattern[i])
			i++
		}
	}
	return sb.String()
}

func appendToken(sb *strings.Builder, t time.Time, tok string) {
	switch tok {
	case "YYYY":
		sb.WriteString(pad(t.Year(), 4))
	case "YY":
		sb.WriteString(pad(t.Year()%100, 2))
	case "MM":
		sb.WriteString(pad(int(t.Month()), 2))
	case "M":
		sb.WriteString(strconv.Itoa(int(t.Month())))
	case "DD":
		sb.WriteString(pad(t.Day(), 2))
	case "D":
		sb.WriteString(strconv.Itoa(t.Day()))
	case "HH":
		sb.WriteString(pad(t.Hour(), 2))
	case "H":
		sb.WriteString(strconv.Itoa(t.Hour()))
	case "hh":
		sb.WriteString(pad(hour12(t.Hour()), 2))
	case "h":
		sb.WriteString(strconv.Itoa(hour12(t.Hour())))
	case "mm":
		sb.WriteString(pad(t.Minute(), 2))
	case "m":
		sb.WriteString(strconv.Itoa(t.Minute()))
	case "ss":
		sb.WriteString(pad(t.Second(), 2))
	case "s":
		sb.WriteString(strconv.Itoa(t.Second()))
	case "SSS":
		sb.WriteString(pad(t.Nanosecond()/int(time.Millisecond), 3))
	case "A":
		sb.WriteString(meridiem(t.Hour(), "AM", "PM"))
	case "a":
		sb.WriteString(meridiem(t.Hour(), "am", "pm"))
	case "Z":
		sb.WriteString(t.Format("-07:00"))
	case "ZZ":
		sb.WriteString(t.Format("-0700"))
	}
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

func meridiem(h int, am, pm string) string {
	if h < 12 {
		return am
	}
	return pm
}
