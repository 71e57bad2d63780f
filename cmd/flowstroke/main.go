// Command flowstroke turns note events into brush-stroke geometry.
//
// Usage:
//
//	flowstroke render performance.json -o flows.png
//	flowstroke render take.mid -o take.png --watch
//	flowstroke mesh performance.json -o flows.json
//	flowstroke serve --addr :8080
//	flowstroke shader -o ribbon.spv
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
