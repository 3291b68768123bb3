package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}

// NewData builds template data for an account notification.
func NewData(appName, name, username, email string, opts ...Option) map[string]any {
	d := EmailData{AppName: appName, Name: name, Username: username, Email: email}
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}
