// THE MOAT: a satirical quest log for fortifying your job security.
//
// Usage:
//
//	moat [--verbose] [--quiet] [--style dark] [--sound]
//	moat list
//	moat show <n|id>
//	moat play <n|id>...
//	moat render [-o page.html] [--unlock ids] [--select id]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
