package main

import (
	"context"
	"os"

	"github.com/spec-kit/repair-service/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.OpenFromEnv).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
