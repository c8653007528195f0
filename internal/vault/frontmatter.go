package vault

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	frontmatterCacheSize = 512
	frontmatterMaxBytes  = 256 << 10
)

type frontmatterEntry struct {
	modTime time.Time
	size    int64
	meta    map[string]any
}

// Frontmatter returns the YAML frontmatter of a markdown file, or nil when the
// file has none. Results are cached until the file's mtime or size changes.
func (v *Vault) Frontmatter(p string) (map[string]any, error) {
	rel, ok := v.cleanRel(p)
	if !ok {
		return nil, fmt.Errorf("frontmatter %q: %w", p, ErrNotFound)
	}
	if newFile(rel).Extension != "md" {
		return nil, nil
	}

	abs := v.AbsPath(File{Path: rel})
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("frontmatter %q: %w", rel, err)
	}
	if cached, ok := v.frontmatter.Get(rel); ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.meta, nil
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("frontmatter %q: %w", rel, err)
	}
	defer f.Close()

	meta, err := parseFrontmatter(io.LimitReader(f, frontmatterMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("frontmatter %q: %w", rel, err)
	}
	v.frontmatter.Add(rel, frontmatterEntry{modTime: info.ModTime(), size: info.Size(), meta: meta})
	return meta, nil
}

// parseFrontmatter reads a leading "---" delimited YAML block. Input without
// one yields nil, nil.
func parseFrontmatter(r io.Reader) (map[string]any, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), frontmatterMaxBytes)

	if !scanner.Scan() {
		return nil, scanner.Err()
	}
	first := strings.TrimPrefix(scanner.Text(), "\ufeff")
	if strings.TrimRight(first, " \t\r") != "---" {
		return nil, nil
	}

	var block bytes.Buffer
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "---" || trimmed == "..." {
			closed = true
			break
		}
		block.WriteString(line)
		block.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !closed {
		return nil, nil
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal(block.Bytes(), &meta); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return meta, nil
}
