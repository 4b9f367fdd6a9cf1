package helper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const RequestIdKey = "X-Describe-Request-Id"

func GenRequestID() string {
	return time.Now().Format("20060102150405") + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func MessageWithRequestId(message string, id string) string {
	return fmt.Sprintf("%s (request id: %s)", message, id)
}

func AssignOrDefault(value string, defaultValue string) string {
	if len(value) != 0 {
		return value
	}
	return defaultValue
}

// HumanSize renders a byte count the way the logs print it, e.g. 1.5 MiB.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
