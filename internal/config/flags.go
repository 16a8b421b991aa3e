package config

import (
	"flag"
	"os"
	"time"

	"scoutsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the scouting server (default from Config)
//	-d string   path of the local record database
//	-b string   path of the attachment blob store
//	-i int      background sync interval in seconds (0 disables)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-b", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the scouting server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local record database")
	fs.StringVar(&cfg.BlobDatabasePath, "b", cfg.BlobDatabasePath, "path of the attachment blob store")
	syncInterval := fs.Int("i", int(cfg.AutoSyncInterval.Seconds()), "background sync interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AutoSyncInterval = time.Duration(*syncInterval) * time.Second
}
