package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadDigests reads a digest file: one hex hash per line. Blank lines and
// lines starting with '#' are ignored.
func ReadDigests(r io.Reader) ([]Hash, error) {
	var hashes []Hash
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		h, err := ParseHash(text)
		if err != nil {
			return nil, fmt.Errorf("replay: digest line %d: %w", line, err)
		}
		hashes = append(hashes, h)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("replay: read digests: %w", err)
	}
	return hashes, nil
}

// WriteDigests writes hashes in the format read by ReadDigests.
func WriteDigests(w io.Writer, hashes []Hash) error {
	bw := bufio.NewWriter(w)
	for _, h := range hashes {
		if _, err := bw.WriteString(h.String() + "\n"); err != nil {
			return fmt.Errorf("replay: write digests: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("replay: write digests: %w", err)
	}
	return nil
}

// LoadDigests reads a digest file from path.
func LoadDigests(path string) ([]Hash, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("replay: open digests: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadDigests(f)
}

// SaveDigests writes hashes to a digest file at path.
func SaveDigests(path string, hashes []Hash) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("replay: create digests: %w", err)
	}
	if err := WriteDigests(f, hashes); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
