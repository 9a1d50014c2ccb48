package peer

import "time"

// writeControlDeadline bounds how long a close-control write may block.
const writeControlDeadline = 2 * time.Second

func deadlineNow() time.Time {
	return time.Now().Add(writeControlDeadline)
}
