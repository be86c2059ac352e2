package sources

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"tandoorimport/config"
	"tandoorimport/types"
)

// ReadFile loads candidate URLs from a line-oriented file. Blank lines and
// lines starting with '#' are skipped, as are lines too long to be a URL.
func ReadFile(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.FileError{Msg: fmt.Sprintf("URL file not found: %s", path)}
		}
		return nil, &types.FileError{Msg: fmt.Sprintf("cannot access URL file %s", path), Err: err}
	}
	if info.IsDir() {
		return nil, &types.FileError{Msg: fmt.Sprintf("path is not a file: %s", path)}
	}
	if info.Size() > config.MaxURLFileSize {
		return nil, &types.FileError{Msg: fmt.Sprintf("file too large (>100MB): %s", path)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &types.FileError{Msg: fmt.Sprintf("cannot open URL file %s", path), Err: err}
	}
	defer f.Close()

	urls, err := readLines(f)
	if err != nil {
		return nil, &types.FileError{Msg: fmt.Sprintf("error reading URL file %s", path), Err: err}
	}
	return urls, nil
}

func readLines(r io.Reader) ([]string, error) {
	var urls []string
	br := bufio.NewReader(r)
	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNum++
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "" || strings.HasPrefix(trimmed, "#"):
				// comment or blank
			case len(trimmed) > config.MaxURLLineLength:
				log.Printf("⚠️ Skipping overly long URL on line %d", lineNum)
			default:
				urls = append(urls, trimmed)
			}
		}
		if err == io.EOF {
			return urls, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
