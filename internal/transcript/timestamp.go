package transcript

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts a cue timestamp into a duration. The full
// HH:MM:SS.mmm form and the MM:SS.mmm short form emitted by some caption
// tools are both accepted; a comma millisecond separator is normalized.
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ",", ".")

	timeParts := strings.Split(value, ".")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")

	var hoursText, minutesText, secondsText string
	switch len(hms) {
	case 3:
		hoursText, minutesText, secondsText = hms[0], hms[1], hms[2]
	case 2:
		hoursText, minutesText, secondsText = "0", hms[0], hms[1]
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	hours, errH := strconv.Atoi(hoursText)
	minutes, errM := strconv.Atoi(minutesText)
	seconds, errS := strconv.Atoi(secondsText)
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if len(timeParts[1]) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q: milliseconds must be three digits", value)
	}

	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

// FormatTimestamp renders a duration in the HH:MM:SS.mmm form used for cue
// ranges and exported timestamp lines.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	millis := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}
