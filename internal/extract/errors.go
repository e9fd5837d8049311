package extract

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyUpload     = errors.New("no document data received")
	ErrFileTooLarge    = errors.New("file exceeds the 5 MiB limit")
	ErrNoTextExtracted = errors.New("no text could be extracted from the document")
)

// UnsupportedTypeError names the sniffed content type so the user can be told
// what was actually received.
type UnsupportedTypeError struct {
	Detected string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Detected)
}

// MalwareError carries the scanner's signature name.
type MalwareError struct {
	Signature string
}

func (e *MalwareError) Error() string {
	return fmt.Sprintf("malware detected: %s", e.Signature)
}
