package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneSafariUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	ipadSafariUA    = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
)

func TestClassifyDesktopBrowser(t *testing.T) {
	info := Classify(chromeDesktopUA)
	assert.Equal(t, "Chrome", info.Browser)
	assert.Equal(t, ClassDesktop, info.DeviceType)
	assert.Equal(t, "Windows", info.OS)
	assert.NotEmpty(t, info.BrowserVersion)
}

func TestClassifyMobileBrowser(t *testing.T) {
	info := Classify(iphoneSafariUA)
	assert.Equal(t, ClassMobile, info.DeviceType)
	assert.Equal(t, "iOS", info.OS)
}

func TestClassifyTablet(t *testing.T) {
	info := Classify(ipadSafariUA)
	assert.Equal(t, ClassTablet, info.DeviceType)
}

func TestClassifyEmptyAgentDefaultsToDesktop(t *testing.T) {
	info := Classify("")
	assert.Equal(t, ClassDesktop, info.DeviceType)
	assert.Empty(t, info.Browser)
}

func TestClassifyGarbageAgentDefaultsToDesktop(t *testing.T) {
	info := Classify("not a real user agent")
	assert.Equal(t, ClassDesktop, info.DeviceType)
}
