// The manaclient command logs in to a Mana server with the account from its
// config file and stays in the game, printing what happens, until it is
// interrupted or the server drops it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mana/mana-sub005/internal/client"
	"github.com/mana/mana-sub005/internal/core"
	"github.com/mana/mana-sub005/internal/core/data"
	"github.com/mana/mana-sub005/internal/game"
)

var configFlag = flag.String("config", "./", "Path to the directory containing the client config file")

func main() {
	flag.Parse()

	config, err := core.LoadConfig(*configFlag)
	if err != nil {
		exit("error loading config: %v", err)
	}
	logger, err := core.NewLogger(config)
	if err != nil {
		exit("error initializing logger: %v", err)
	}

	opts := []client.Option{client.WithEventHandler(func(e game.Event) {
		fmt.Println(e)
	})}
	if config.ChatLog.Enabled {
		db, err := data.Open(config.ChatLog.Engine, config.ChatLog.Filename, config.ChatLog.DSN, false)
		if err != nil {
			exit("error opening chat log: %v", err)
		}
		defer data.Close(db)
		opts = append(opts, client.WithChatLog(data.NewChatLog(db, config.LoginAddress())))
	}

	c, err := client.New(config, logger, opts...)
	if err != nil {
		exit("error creating client: %v", err)
	}

	// Ctrl-C closes every connection before exiting.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := c.Start(); err != nil {
		logger.Errorf("error starting session: %v", err)
		return
	}

	if err := c.Run(ctx); err != nil {
		logger.Errorf("session ended in stage %s: %v", c.Stage(), err)
	}
}

func exit(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
