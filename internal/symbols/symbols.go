// Package symbols parses archive symbol tables produced by `nm` in POSIX
// portable format and selects the globals a re-archived library must keep.
//
// The expected listing format is one record per line:
//
//	./libexample.a[example.rcgu.o]: _example_get_desc T 500 0
//
// Field 1 carries the archive member name between brackets, field 2 the
// symbol name. Remaining fields (type, value, size) are tool-dependent.
package symbols

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// memberPattern extracts the object file name from the first listing field.
var memberPattern = regexp.MustCompile(`^.+\[(.+)\]:$`)

// Symbol is one entry of an archive's global symbol table.
type Symbol struct {
	// Member is the archive member (object file) defining the symbol. It is
	// empty when the listing was taken from a bare object file.
	Member string
	// Name is the symbol name as the toolchain sees it, mangling included.
	Name string
	// Kind is the nm type letter, e.g. "T" for a text-section global.
	Kind string
}

// ParseTable reads an `nm -P` style listing and returns the symbols found.
// Blank lines are ignored; anything else that does not look like a listing
// record is an error, so a misconfigured nm fails loudly instead of silently
// producing an empty keep list.
func ParseTable(r io.Reader) ([]Symbol, error) {
	var syms []Symbol
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed symbol listing at line %d: %q", line, text)
		}

		sym := Symbol{Name: fields[1]}
		if m := memberPattern.FindStringSubmatch(fields[0]); m != nil {
			sym.Member = m[1]
		} else if strings.HasSuffix(fields[0], ":") {
			// Bare object file listing: "./example.o:".
			sym.Member = ""
		} else {
			return nil, fmt.Errorf("malformed symbol listing at line %d: %q", line, text)
		}
		if len(fields) >= 3 {
			sym.Kind = fields[2]
		}
		syms = append(syms, sym)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read symbol listing: %w", err)
	}

	return syms, nil
}

// Keep returns the sorted, de-duplicated symbol names matching the pattern.
func Keep(syms []Symbol, pattern *regexp.Regexp) []string {
	seen := make(map[string]struct{})
	for _, sym := range syms {
		if pattern.MatchString(sym.Name) {
			seen[sym.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteExportList writes an exported-symbols file consumable by the linker's
// -exported_symbols_list flag, one symbol per line.
func WriteExportList(path string, names []string) error {
	var b strings.Builder
	b.WriteString("# Generated by libforge\n")
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write export list %s: %w", path, err)
	}
	return nil
}
