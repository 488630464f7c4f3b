//go:build windows

package parking

import (
	"github.com/joeycumines/go-parking/internal/keyedevent"
)

func platformTestBackends() []backend {
	backends := []backend{windowsBackend{}}
	if h, err := keyedevent.Open(); err == nil {
		backends = append(backends, countingBackend{events: ntKeyedEvents{h: h}})
	}
	return backends
}
