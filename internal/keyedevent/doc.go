// Package keyedevent wraps the NT Keyed Events API (ntdll, Windows XP+).
//
// A keyed event lets a thread wait on an arbitrary even-valued key, and
// another thread release exactly one waiter of that key. Unlike a futex,
// waiting does not compare a value, and releasing blocks until some thread
// is waiting on the key, so users must track how many waiters to release.
//
// The package only has an implementation on windows.
package keyedevent
