package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/worldgraph/internal/cli"
	"github.com/yungbote/worldgraph/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "worldgraph: %v\n", err)
		os.Exit(1)
	}
}
