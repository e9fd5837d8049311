package extract

import (
	"bytes"
	"context"
	"fmt"

	clamd "github.com/dutchcoders/go-clamd"
)

// ClamScanner scans uploads through a clamd daemon.
type ClamScanner struct {
	client *clamd.Clamd
}

func NewClamScanner(address string) *ClamScanner {
	return &ClamScanner{client: clamd.NewClamd(address)}
}

func (s *ClamScanner) Scan(ctx context.Context, data []byte) (bool, string, error) {
	if err := s.client.Ping(); err != nil {
		return false, "", fmt.Errorf("clamd unreachable: %w", err)
	}

	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(bytes.NewReader(data), abort)
	if err != nil {
		return false, "", fmt.Errorf("clamd scan: %w", err)
	}

	for r := range results {
		select {
		case <-ctx.Done():
			return false, "", ctx.Err()
		default:
		}
		if r.Status == clamd.RES_FOUND {
			return false, r.Description, nil
		}
	}
	return true, "", nil
}
