package export

import (
	"errors"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the platform clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}
