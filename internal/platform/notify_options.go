package platform

import "time"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender to the notification service.
	AppName string
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification where supported.
	IconPath string
	// Timeout is how long the notification stays visible. Zero uses the
	// service default.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "panview"
	}
	return o.AppName
}
