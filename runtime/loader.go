package runtime

import (
	"blog-bus/errors"
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed censored/*
var censoredFolder embed.FS

// CensoredData carries the result of the loading process including metadata for logging.
type CensoredData struct {
	Words     []string
	Languages []string
}

// CensoredLoader is responsible for reading and parsing blacklisted words from embedded files.
type CensoredLoader struct {
	fs fs.FS
}

// NewCensoredLoader creates a new instance of CensoredLoader with the provided filesystem.
func NewCensoredLoader(f fs.FS) *CensoredLoader {
	return &CensoredLoader{fs: f}
}

// DefaultCensoredLoader reads the dictionaries shipped with the binary.
func DefaultCensoredLoader() *CensoredLoader {
	return NewCensoredLoader(censoredFolder)
}

// LoadAll scans the given directory, identifying .txt files as language
// dictionaries and parsing their contents into a unique list of words.
// extra words (e.g. from configuration) are merged into the result.
func (l *CensoredLoader) LoadAll(dir string, extra ...string) (*CensoredData, error) {
	entries, err := fs.ReadDir(l.fs, dir)
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})
	var words []string
	add := func(w string) {
		w = strings.TrimSpace(w)
		if w == "" {
			return
		}
		if _, ok := uniqueWords[w]; ok {
			return
		}
		uniqueWords[w] = struct{}{}
		words = append(words, w)
	}

	for _, entry := range entries {
		// We only process .txt files, skipping subdirectories
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}

		// Track the language based on the filename (e.g., "fr.txt" -> "fr")
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(l.fs, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		// Use a scanner to handle different line endings (\n vs \r\n) correctly
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			add(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	for _, w := range extra {
		add(w)
	}

	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}

	return &CensoredData{
		Words:     words,
		Languages: languages,
	}, nil
}
