//go:build unix

package cli

import (
	"syscall"
	"testing"
	"time"
)

func TestSignalContext_CancelledOnSIGTERM(t *testing.T) {
	ctx, stop := signalContext()
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send SIGTERM: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled by SIGTERM")
	}
}
