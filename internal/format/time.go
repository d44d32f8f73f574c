// Package format holds presentation helpers shared by the API surface and
// the CLI client.
package format

import (
	"fmt"
	"time"
)

// Date renders a creation timestamp as Korean relative time:
// under 2 minutes "방금 전", under an hour "N분 전", under a day "N시간 전",
// under a week "N일 전", otherwise an absolute date.
func Date(t time.Time, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < 2*time.Minute:
		return "방금 전"
	case d < time.Hour:
		return fmt.Sprintf("%d분 전", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d시간 전", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d일 전", int(d.Hours()/24))
	default:
		return t.Format("2006년 1월 2일")
	}
}
