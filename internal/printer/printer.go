// Package printer exposes the installed receipt printers and a file-backed
// spooler: rendered tickets are dropped into a spool directory where the
// host's print service picks them up.
package printer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chekib1978/cafe-flow-print/internal/models"
)

// Inventory is the configured printer list
type Inventory struct {
	printers []models.Printer
}

// NewInventory builds the printer inventory from configured names
func NewInventory(names []string, defaultName string) *Inventory {
	printers := make([]models.Printer, 0, len(names))
	for _, name := range names {
		printers = append(printers, models.Printer{
			Name:      name,
			Status:    "Ready",
			IsDefault: name == defaultName,
		})
	}
	return &Inventory{printers: printers}
}

// List returns the installed printers
func (i *Inventory) List() []models.Printer {
	out := make([]models.Printer, len(i.printers))
	copy(out, i.printers)
	return out
}

// Default returns the default printer, or the first one when none is marked
func (i *Inventory) Default() (*models.Printer, error) {
	for _, p := range i.printers {
		if p.IsDefault {
			cp := p
			return &cp, nil
		}
	}
	if len(i.printers) > 0 {
		cp := i.printers[0]
		return &cp, nil
	}
	return nil, fmt.Errorf("no printers configured")
}

// Spooler writes tickets into the spool directory
type Spooler struct {
	dir string
}

// NewSpooler creates the spool directory if needed
func NewSpooler(dir string) (*Spooler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create spool dir: %w", err)
	}
	return &Spooler{dir: dir}, nil
}

// Spool writes one ticket. The file name carries the ticket number so a
// re-delivered event overwrites its own file instead of printing twice.
func (s *Spooler) Spool(ticketNumber string, content []byte) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("ticket_%s.txt", ticketNumber))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to spool ticket %s: %w", ticketNumber, err)
	}
	return path, nil
}
