package printer

import (
	"image"

	"github.com/slok/sendtovrc/internal/imagecheck"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/selection"
)

// Printer knows how to print sendtovrc information in different formats.
type Printer interface {
	PrintSendState(st model.SendState) error
	PrintHistory(sends []model.Send) error
	PrintImageCheck(c ImageCheck) error
	PrintCrop(c Crop) error
	PrintWhoami(w Whoami) error
	PrintSettings(settings []model.Setting) error
	PrintChecks(results []model.CheckResult) error
	PrintMessage(msg string) error
}

// ImageCheck is the result of checking a file before sending it.
type ImageCheck struct {
	Path      string
	Validity  imagecheck.Validity
	Image     *imagecheck.Image
	SizeBytes int64
}

// Crop is the result of cropping a capture.
type Crop struct {
	OutputPath string
	Bounding   selection.Rect
	Pixels     image.Rectangle
}

// Whoami is the current VRChat session.
type Whoami struct {
	LoggedIn    bool
	DisplayName string
}

// maskSecret hides all but the last 4 characters of credentials.
func maskSecret(key, value string) string {
	if value == "" || !model.IsSecretSetting(key) {
		return value
	}
	if len(value) <= 8 {
		return "********"
	}
	return "********" + value[len(value)-4:]
}
