package config

import (
	"flag"
	"os"

	"github.com/morkath/contacts/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   path to the SQLite database file
//	-p string   directory for imported contact photos
//	-s string   path to the device address book vCard file
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-p", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the contacts database file")
	fs.StringVar(&cfg.PhotoDir, "p", cfg.PhotoDir, "directory for contact photos")
	fs.StringVar(&cfg.DeviceSourcePath, "s", cfg.DeviceSourcePath, "path to the device address book (vCard file)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
