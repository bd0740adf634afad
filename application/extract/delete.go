package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"romkit/domain/archive"
)

// deleteSource removes an archive after a successful extraction. RAR sets
// lose every volume and a failed removal is only a warning; for other
// formats it fails the archive.
func (w *Walker) deleteSource(c candidate, outcome *archive.Outcome) {
	if c.Kind == archive.KindRarFirst {
		for _, name := range archive.VolumeSet(c.Name, c.siblings) {
			path := filepath.Join(c.Dir, name)
			if err := os.Remove(path); err != nil {
				w.printer.Warn("could not delete %s: %v", path, err)
				outcome.Warnings++
				continue
			}
			w.printer.Printf("  deleted %s\n", name)
		}
		return
	}

	if err := os.Remove(c.Path); err != nil {
		outcome.Err = fmt.Errorf("failed to delete %s: %w", c.Path, err)
		w.printer.Error("%v", outcome.Err)
		return
	}
	w.printer.Printf("  deleted %s\n", c.Name)
}
