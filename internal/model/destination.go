package model

import (
	"fmt"
	"strings"
)

// Destination is a place where an image can be sent to.
type Destination string

const (
	DestinationVideoPlayer Destination = "video_player"
	DestinationImageViewer Destination = "image_viewer"
	DestinationVRChatPrint Destination = "vrchat_print"
)

// Destinations are all the supported destinations in display order.
var Destinations = []Destination{
	DestinationVideoPlayer,
	DestinationImageViewer,
	DestinationVRChatPrint,
}

// Validate validates the destination.
func (d Destination) Validate() error {
	switch d {
	case DestinationVideoPlayer, DestinationImageViewer, DestinationVRChatPrint:
		return nil
	}
	return fmt.Errorf("unknown destination %q: %w", string(d), ErrNotValid)
}

// ParseDestination parses user provided destination names, it accepts both the
// canonical names and the dashed and short aliases (`video-player`, `print`...).
func ParseDestination(s string) (Destination, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video_player", "video-player", "video":
		return DestinationVideoPlayer, nil
	case "image_viewer", "image-viewer", "image":
		return DestinationImageViewer, nil
	case "vrchat_print", "vrchat-print", "print":
		return DestinationVRChatPrint, nil
	}
	return "", fmt.Errorf("unknown destination %q: %w", s, ErrNotValid)
}
