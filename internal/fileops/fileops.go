// Package fileops contains small file helpers. Its tests show how code that
// needs files on disk is tested with xdeploy.
package fileops

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// LineCount returns the number of lines in the file at path. Lines end with
// "\n" or "\r\n", and a final line without a line ending still counts.
func LineCount(path string) (int, error) {
	if !FileExists(path) {
		return 0, fmt.Errorf("file %s doesn't exist", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	// ReadLine splits lines longer than the buffer into fragments; only the
	// last fragment of each line is counted.
	count := 0
	r := bufio.NewReader(f)
	for {
		_, isPrefix, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !isPrefix {
			count++
		}
	}
	return count, nil
}
