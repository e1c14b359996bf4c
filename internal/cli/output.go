package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/strips/internal/presentation/tui"
)

// Output formats.
const (
	FormatAuto     = "auto"
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// resolveFormat turns "auto" into markdown on a terminal and text elsewhere.
func resolveFormat(format string, out io.Writer) (string, error) {
	switch format {
	case "", FormatAuto:
		if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
			return FormatMarkdown, nil
		}
		return FormatText, nil
	case FormatText, FormatJSON, FormatMarkdown:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want auto, text, json or markdown)", format)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMarkdown(out io.Writer, md string) error {
	f, _ := out.(*os.File)
	rendered, err := tui.NewRenderer(f)(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// readPlan reads action identifiers, one per line. "-" reads in.
func readPlan(path string, in io.Reader) ([]string, error) {
	r := in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open plan: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return lines, nil
}
