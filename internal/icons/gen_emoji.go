//go:build ignore

// gen_emoji writes emoji_table.go from the Unicode emoji-data.txt file.
//
//	go run gen_emoji.go [-version 14.0.0] [-in emoji-data.txt]
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
)

type codeRange struct{ lo, hi rune }

func main() {
	version := flag.String("version", "14.0.0", "Unicode version to fetch")
	in := flag.String("in", "", "read a local emoji-data.txt instead of fetching")
	out := flag.String("out", "emoji_table.go", "output file")
	flag.Parse()

	src, err := open(*in, *version)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	ranges, err := parse(src)
	if err != nil {
		log.Fatal(err)
	}

	code, err := render(*version, ranges)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, code, 0o644); err != nil {
		log.Fatal(err)
	}
}

func open(path, version string) (io.ReadCloser, error) {
	if path != "" {
		return os.Open(path)
	}
	url := "https://www.unicode.org/Public/" + version + "/ucd/emoji/emoji-data.txt"
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

// parse collects the "Emoji" property lines, e.g.
//
//	2600..2604    ; Emoji                # E0.6   [5] (☀️..☄️)
func parse(r io.Reader) ([]codeRange, error) {
	var ranges []codeRange
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Split(line, ";")
		if len(fields) != 2 || strings.TrimSpace(fields[1]) != "Emoji" {
			continue
		}
		lo, hi, _ := strings.Cut(strings.TrimSpace(fields[0]), "..")
		if hi == "" {
			hi = lo
		}
		l, err := strconv.ParseUint(lo, 16, 32)
		if err != nil {
			return nil, err
		}
		h, err := strconv.ParseUint(hi, 16, 32)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, codeRange{rune(l), rune(h)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].lo < ranges[j].lo })
	merged := ranges[:0]
	for _, r := range ranges {
		if n := len(merged); n > 0 && r.lo <= merged[n-1].hi+1 {
			merged[n-1].hi = max(merged[n-1].hi, r.hi)
			continue
		}
		merged = append(merged, r)
	}
	return merged, nil
}

func render(version string, ranges []codeRange) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by gen_emoji.go from Unicode %s emoji-data.txt. DO NOT EDIT.\n\n", version)
	b.WriteString("package icons\n\nimport \"unicode\"\n\n")
	b.WriteString("// emojiTable holds the code points with the Unicode Emoji property.\n")
	b.WriteString("var emojiTable = &unicode.RangeTable{\n\tR16: []unicode.Range16{\n")
	latin := 0
	for _, r := range ranges {
		if r.hi > 0xFFFF {
			continue
		}
		if r.hi <= 0xFF {
			latin++
		}
		fmt.Fprintf(&b, "\t\t{Lo: 0x%04x, Hi: 0x%04x, Stride: 1},\n", r.lo, r.hi)
	}
	b.WriteString("\t},\n\tR32: []unicode.Range32{\n")
	for _, r := range ranges {
		if r.lo <= 0xFFFF {
			continue
		}
		fmt.Fprintf(&b, "\t\t{Lo: 0x%x, Hi: 0x%x, Stride: 1},\n", r.lo, r.hi)
	}
	fmt.Fprintf(&b, "\t},\n\tLatinOffset: %d,\n}\n", latin)
	return format.Source(b.Bytes())
}
