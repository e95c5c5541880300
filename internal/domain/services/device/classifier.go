// Package device classifies user-agent strings into the device attributes
// stored on a session. Classification is a pure function of the input string.
package device

import (
	"github.com/mileusna/useragent"

	"github.com/zapformai/zapform-analytics/internal/domain/entities/session"
)

// Device classes attached to sessions.
const (
	ClassDesktop = "desktop"
	ClassMobile  = "mobile"
	ClassTablet  = "tablet"
)

// Classify parses a user-agent string into device info. Unknown or empty
// agents classify as an unnamed desktop rather than failing; session creation
// must never depend on a parseable user agent.
func Classify(userAgent string) session.DeviceInfo {
	ua := useragent.Parse(userAgent)

	deviceType := ClassDesktop
	switch {
	case ua.Tablet:
		deviceType = ClassTablet
	case ua.Mobile:
		deviceType = ClassMobile
	}

	return session.DeviceInfo{
		Browser:        ua.Name,
		BrowserVersion: ua.Version,
		OS:             ua.OS,
		OSVersion:      ua.OSVersion,
		DeviceType:     deviceType,
	}
}
