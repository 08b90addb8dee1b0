package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/microblog/internal/admin/cli"
	"github.com/dmitrijs2005/microblog/internal/flagx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server"
	"github.com/dmitrijs2005/microblog/internal/server/config"
)

// flags that consume a value, so their values are not mistaken for commands
var valueFlags = []string{"-c", "-config", "-d", "-s", "-t", "-i", "-m", "-l", "-n", "-e", "-p"}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer app.Close()

	c := cli.New(app.Users, os.Stdin, os.Stdout)
	if err := c.Run(ctx, flagx.Positional(os.Args[1:], valueFlags)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		app.Close()
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}

}
