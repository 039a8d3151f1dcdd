package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/morkath/contacts/internal/common"
)

// Import runs one device merge pass and reports the counts.
func (a *App) Import(ctx context.Context) error {
	if a.merger == nil {
		printlnFn("No device source configured (set device_source_path or -s)")
		return common.ErrNoDeviceSource
	}

	res, err := a.merger.Run(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	printlnFn(fmt.Sprintf("Imported: %d added, %d updated", res.Added, res.Updated))
	return nil
}

// Export pushes a single contact into the device address book.
func (a *App) Export(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}

	deviceID, err := a.service.ExportToDevice(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNoDeviceSource) {
			printlnFn("No device source configured (set device_source_path or -s)")
			return err
		}
		a.reportError(err)
		return err
	}
	printlnFn("Exported as device record", deviceID)
	return nil
}
