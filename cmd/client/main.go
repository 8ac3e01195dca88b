package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"cloudchat/internal/client"
	"cloudchat/internal/config"
	"cloudchat/internal/keyring"
	"cloudchat/internal/storage"
	"cloudchat/internal/transport"
	"cloudchat/internal/ui"
	"cloudchat/internal/utils"
)

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Identity == "" {
		fmt.Fprintln(os.Stderr, "no identity configured; set identity in the config file or CLOUDCHAT_IDENTITY")
		os.Exit(1)
	}

	// debugging sink only; on bind failure this degrades to a no-op logger
	logger, _ := utils.NewRemoteLogger(cfg.LogPort)
	defer logger.Close()

	for {
		again, err := runOnce(cfg, logger)
		if err != nil {
			log.Fatalf("client: %v", err)
		}
		if !again {
			return
		}
		logger.Logf("[Main] Session ended by server, reconnecting")
	}
}

// runOnce builds one full session and blocks until the UI exits. It reports
// whether the session ended with a forced disconnect, in which case the
// caller rebuilds everything from scratch.
func runOnce(cfg *config.Config, logger *utils.RemoteLogger) (bool, error) {
	ctx := context.Background()

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return false, err
	}
	defer db.Close()

	api := client.NewAPI(cfg.ServerURL)
	keys := keyring.EnsureKeys(ctx, db, cfg.Identity, cfg.Passphrase, api.PublishKey, logger)

	conn, err := transport.Dial(cfg.SocketURL, logger)
	if err != nil {
		return false, err
	}

	session := client.NewSession(cfg.Identity, cfg.DedupCapacity, db, logger)
	c := client.New(session, keys, conn, api)
	defer c.Close()

	themeColor := cfg.ThemeColor
	if stored, err := db.GetSetting(ctx, "theme_color"); err == nil && stored != "" {
		themeColor = stored
	}

	u := ui.NewUI(c, themeColor)

	if err := c.Start(); err != nil {
		logger.Logf("[Main] Start: %v", err)
	}

	forced := make(chan bool, 1)
	go func() {
		forced <- errors.Is(c.Run(), client.ErrForcedDisconnect)
		u.Stop()
	}()

	if err := u.Run(); err != nil {
		return false, err
	}
	// When the user quit, the event loop may still be blocked on the socket;
	// the deferred Close unblocks it and the buffered send never leaks.
	select {
	case f := <-forced:
		return f, nil
	default:
		return false, nil
	}
}
