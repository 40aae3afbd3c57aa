package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	resetMu sync.Mutex
	resetFn func()
)

// setCrashReset registers the terminal restore run before a crash report
func setCrashReset(fn func()) {
	resetMu.Lock()
	resetFn = fn
	resetMu.Unlock()
}

// handleCrash restores the terminal, prints the stack trace and exits
func handleCrash(r any) {
	if r == nil {
		return
	}
	resetMu.Lock()
	fn := resetFn
	resetMu.Unlock()
	if fn != nil {
		fn()
	}

	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\nFINGERPATH CRASHED: %v\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()
	os.Exit(1)
}

// goSafe runs fn in a goroutine that reports panics through handleCrash
func goSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				handleCrash(r)
			}
		}()
		fn()
	}()
}
