//go:build !windows

package parking

func platformTestBackends() []backend { return nil }
