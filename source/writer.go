package source

import (
	"os"

	"github.com/pkg/errors"
)

// WriteFile writes data to path byte-exact, creating or truncating it
// as needed.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "unable to write output file %q", path)
	}
	return nil
}
