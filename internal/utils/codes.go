package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingCode generates a unique human-readable booking code,
// e.g. FRY-20260830-1A2B3C4D.
func NewBookingCode(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("FRY-%s-%s", t.Format("20060102"), suffix)
}

// NewTicketNumber generates a ticket number for a paid passenger.
func NewTicketNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return "TKT-" + suffix
}
