package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile or desktop
	OS         string `json:"os"`          // Android 12, iOS 15, Windows 10, etc.
	Browser    string `json:"browser"`     // Chrome, Safari, Firefox, etc.
	IsBot      bool   `json:"is_bot"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
		}
	}

	parser := ua.New(userAgent)

	info := DeviceInfo{
		Raw:     userAgent,
		IsBot:   parser.Bot(),
		OS:      getOS(parser),
		Browser: getBrowser(parser),
	}
	if parser.Mobile() {
		info.DeviceType = "mobile"
	} else {
		info.DeviceType = "desktop"
	}
	return info
}

// Summary returns a short device description for the login record,
// e.g. "mobile / Android 12 / Chrome".
func (d DeviceInfo) Summary() string {
	return strings.Join([]string{d.DeviceType, d.OS, d.Browser}, " / ")
}

func getOS(parser *ua.UserAgent) string {
	osInfo := parser.OSInfo()
	if osInfo.Name == "" {
		return "Unknown"
	}
	if osInfo.Version != "" {
		return osInfo.Name + " " + osInfo.Version
	}
	return osInfo.Name
}

func getBrowser(parser *ua.UserAgent) string {
	name, _ := parser.Browser()
	if name == "" {
		return "Unknown"
	}
	return name
}
