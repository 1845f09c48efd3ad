// internal/notify/templates.go
package notify

import (
	"fmt"
	"time"

	"github.com/pitchside/fieldbook/internal/weather"
)

// FormatDateTimeRange renders a reservation window for notification bodies.
func FormatDateTimeRange(start, end time.Time) (string, string) {
	date := start.Format("Monday, Jan 2, 2006")
	timeRange := fmt.Sprintf("%s - %s %s", start.Format("3:04 PM"), end.Format("3:04 PM"), start.Format("MST"))
	return date, timeRange
}

// BuildReminder composes the reminder sent one hour before a reservation.
func BuildReminder(fieldName, clubName string, start, end time.Time) (string, string) {
	date, timeRange := FormatDateTimeRange(start, end)
	subject := "Reservation Reminder"
	body := fmt.Sprintf(
		"You have an upcoming reservation at %s (%s).\nDate: %s\nTime: %s\nThank you for booking with us!",
		fieldName, clubName, date, timeRange,
	)
	return subject, body
}

// BuildWeatherAdvisory composes the advisory attached at booking time using
// the conditions observed when the reservation was created.
func BuildWeatherAdvisory(fieldName string, start time.Time, cond weather.Conditions) (string, string) {
	date, _ := FormatDateTimeRange(start, start)
	subject := "Weather Advisory"
	body := fmt.Sprintf(
		"Upcoming reservation at %s on %s.\nConditions at booking time: %s\nTemperature: %.1f°C\nWind: %.1f m/s",
		fieldName, date, cond.Description, cond.TempC, cond.WindSpeed,
	)
	return subject, body
}
