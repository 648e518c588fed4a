package documents

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ValidatePDF checks the PDF structure and returns its page count.
func ValidatePDF(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	pdfContext, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("invalid pdf: %w", err)
	}
	return pdfContext.PageCount, nil
}

// ExtractPDFText returns the text of every page with one output line per
// baseline, pages joined by a newline and line endings normalized to \n.
func ExtractPDFText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", ErrNoData
	}

	// Both parsers can panic on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf text extraction failed: %v", r)
		}
	}()

	if _, err := ValidatePDF(data); err != nil {
		return "", err
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []string
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		str := pageText(p.Content().Text)
		if strings.TrimSpace(str) != "" {
			pages = append(pages, str)
		}
	}

	return NormalizeLineEndings(strings.Join(pages, "\n")), nil
}

// pageText rebuilds lines from positioned glyphs. Producers move to the next
// line with Td/TD/Tm rather than emitting newlines, so a change of baseline
// starts a new line. A horizontal gap wider than a third of the font size
// becomes a space.
func pageText(glyphs []pdf.Text) string {
	var sb strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			tolerance := math.Max(math.Max(g.FontSize, prev.FontSize)/2, 1)
			switch {
			case math.Abs(g.Y-prev.Y) > tolerance:
				sb.WriteByte('\n')
			case g.X-(prev.X+prev.W) > g.FontSize/3 && prev.S != " " && g.S != " ":
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(g.S)
	}
	return sb.String()
}

// NormalizeLineEndings converts \r\n and lone \r to \n.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
