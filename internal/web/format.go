package web

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// RelativeDate renders t relative to now: minutes within the hour, hours
// within a day, "어제" within two days, then a dotted Korean date.
func RelativeDate(t, now time.Time, withTime bool) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%d분 전", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d시간 전", int(diff/time.Hour))
	case diff < 48*time.Hour:
		return "어제"
	case withTime:
		return t.Format("2006. 01. 02. 15:04")
	default:
		return t.Format("2006. 01. 02.")
	}
}

func DisplayName(fullName, username string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name
	}
	return username
}

// Initial is the upper-cased first letter used for avatars.
func Initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
