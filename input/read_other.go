//go:build !unix

package input

import (
	"fmt"
	"os"
)

// Open reads the file at path into memory.
func Open(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read input: %w", err)
	}
	return &Buffer{data: data}, nil
}
