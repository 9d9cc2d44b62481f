package handlers

import (
	"strconv"

	"epraja-api/config"
	"epraja-api/notify"
	"epraja-api/ws"

	"github.com/sirupsen/logrus"
)

var (
	cfg      *config.Config
	hub      *ws.Hub
	notifier notify.Notifier
	log      *logrus.Logger
)

// Init wires the package-level collaborators. Called once from main and
// from test setup.
func Init(c *config.Config, h *ws.Hub, n notify.Notifier, l *logrus.Logger) {
	cfg = c
	hub = h
	notifier = n
	log = l
}

// publish pushes a realtime event when a hub is wired
func publish(topic, eventType string, data interface{}) {
	if hub != nil {
		hub.Publish(topic, eventType, data)
	}
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
