package oledgen

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// crcFile fingerprints a source image so the catalog can recognise
// inputs that have already been converted.
func crcFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := crc32.NewIEEE()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08X", h.Sum32()), nil
}
