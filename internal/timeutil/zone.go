package timeutil

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimezone = "Asia/Shanghai"
	TimezoneCookie  = "user_timezone"

	DateLayout          = "2006-01-02"
	LocalDateTimeLayout = "2006-01-02T15:04:05"
)

// Clock returns the current instant. Tests pin it; production uses time.Now.
type Clock func() time.Time

// Zone answers "now" and "today" questions for a user in an arbitrary IANA zone.
type Zone struct {
	now Clock
}

func NewZone(now Clock) *Zone {
	if now == nil {
		now = time.Now
	}
	return &Zone{now: now}
}

// ResolveTimezone returns the timezone hint stored on the request, or DefaultTimezone.
// The value is not validated here; PUT /api/timezone validates before storing it.
func ResolveTimezone(r *http.Request) string {
	if r == nil {
		return DefaultTimezone
	}
	c, err := r.Cookie(TimezoneCookie)
	if err != nil {
		return DefaultTimezone
	}
	v, err := url.PathUnescape(c.Value)
	if err != nil {
		v = c.Value
	}
	if v = strings.TrimSpace(v); v == "" {
		return DefaultTimezone
	}
	return v
}

func ValidateTimezone(tz string) error {
	if strings.TrimSpace(tz) == "" {
		return fmt.Errorf("empty timezone")
	}
	_, err := time.LoadLocation(tz)
	return err
}

// OffsetAt is tz's UTC offset at instant t.
func OffsetAt(tz string, t time.Time) (time.Duration, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return 0, err
	}
	_, sec := t.In(loc).Zone()
	return time.Duration(sec) * time.Second, nil
}

// Now is the current instant shifted by tz's offset at this moment. The offset is frozen
// into a fixed zone, so date arithmetic on the result does not follow DST transitions.
// Only use it for "now" views, never to convert past instants.
func (z *Zone) Now(tz string) (time.Time, error) {
	now := z.now()
	off, err := OffsetAt(tz, now)
	if err != nil {
		return time.Time{}, err
	}
	return now.In(time.FixedZone(tz, int(off/time.Second))), nil
}

func (z *Zone) Today(tz string) (string, error) {
	now, err := z.Now(tz)
	if err != nil {
		return "", err
	}
	return now.Format(DateLayout), nil
}

func (z *Zone) DateTime(tz string) (string, error) {
	now, err := z.Now(tz)
	if err != nil {
		return "", err
	}
	return now.Format(LocalDateTimeLayout), nil
}

func (z *Zone) Hour(tz string) (int, error) {
	now, err := z.Now(tz)
	if err != nil {
		return 0, err
	}
	return now.Hour(), nil
}

// DayBounds returns the inclusive local-timestamp range covering date.
func DayBounds(date string) (start, end string) {
	return date + "T00:00:00", date + "T23:59:59"
}

// DaysBefore returns the calendar date n days before date.
func DaysBefore(date string, n int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -n).Format(DateLayout), nil
}

var weekdays = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

func Weekday(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return weekdays[d.Weekday()], nil
}

// ClockTime extracts "HH:MM" from a local timestamp, or "" when it is malformed.
func ClockTime(localDateTime string) string {
	_, rest, ok := strings.Cut(localDateTime, "T")
	if !ok || len(rest) < 5 {
		return ""
	}
	return rest[:5]
}
