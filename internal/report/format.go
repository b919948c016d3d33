package report

import (
	"strconv"
	"time"
)

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// formatDecimal prints the shortest exact form: 2.50 -> "2.5", 3.00 -> "3".
func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatBool always renders "True" or "False", whatever the driver returned.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatDate(t time.Time, layout string) string {
	return t.Format(layout)
}
