// Command parkstress stress tests the parking backend compiled for the
// current platform.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newApp().execute(context.Background(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
