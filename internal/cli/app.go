package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/morkath/contacts/internal/config"
	"github.com/morkath/contacts/internal/device"
	"github.com/morkath/contacts/internal/logging"
	"github.com/morkath/contacts/internal/migrations"
	"github.com/morkath/contacts/internal/photos"
	"github.com/morkath/contacts/internal/services"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	service *services.ContactService
	merger  *device.Merger
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {

	ctx := context.Background()

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	photoStore, err := photos.NewStore(cfg.PhotoDir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var source *device.FileSource
	if cfg.DeviceSourcePath != "" {
		source = device.NewFileSource(cfg.DeviceSourcePath, log)
	}

	// FileSource is both the import source and the write-back target; a nil
	// interface keeps the service's device integration switched off.
	var writer device.Writer
	if source != nil {
		writer = source
	}

	svc := services.NewContactService(db, photoStore, writer, log)

	var merger *device.Merger
	if source != nil {
		merger = device.NewMerger(source, svc, log)
	}

	return &App{
		config:  cfg,
		db:      db,
		service: svc,
		merger:  merger,
		log:     log.With("component", "cli"),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.db.Close() }()

	printlnFn("Contacts (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(os.Stdin))
}
