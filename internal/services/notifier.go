package services

import "fileweb/internal/models"

// Notifier receives one event per successful mutation. Implementations must
// not block; a slow or absent listener never fails the mutation.
type Notifier interface {
	NotifyChanged(event models.ChangeEvent)
}

// NotifierFunc adapts a plain function to Notifier
type NotifierFunc func(event models.ChangeEvent)

func (f NotifierFunc) NotifyChanged(event models.ChangeEvent) {
	f(event)
}

// NopNotifier discards events
type NopNotifier struct{}

func (NopNotifier) NotifyChanged(models.ChangeEvent) {}

// MultiNotifier fans an event out to several notifiers in order
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyChanged(event models.ChangeEvent) {
	for _, n := range m {
		if n != nil {
			n.NotifyChanged(event)
		}
	}
}
