package rules

import "fmt"

// HoursPerDay is the length of a game day.
const HoursPerDay = 24

// FormatGameTime renders an hour count as "День D, HH:00"; day 1 starts at
// hour 0.
func FormatGameTime(hours int) string {
	return fmt.Sprintf("День %d, %02d:00", hours/HoursPerDay+1, hours%HoursPerDay)
}
