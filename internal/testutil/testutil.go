// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"os"
	"time"
)

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// BusyWait spins on the CPU until d has passed. Unlike time.Sleep it keeps
// the calling thread busy, so wall and CPU time grow together.
func BusyWait(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		Spin(1000)
	}
}

// spinSink keeps Spin's loop from being optimized away.
var spinSink uint64

// Spin performs n iterations of cheap integer work.
func Spin(n int) {
	x := spinSink
	for i := range n {
		x = x*6364136223846793005 + uint64(i) + 1
	}
	spinSink = x
}
