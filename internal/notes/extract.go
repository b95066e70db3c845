package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// readNote returns the text of a note file. PDF and spreadsheet notes are
// converted to plain text and Markdown tables.
func readNote(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	case ".xlsx", ".xlsm":
		return readSpreadsheet(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// One bad page should not hide the rest of the document.
			fmt.Fprintf(&sb, "[page %d unreadable: %v]\n\n", i, err)
			continue
		}
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\x00", "")
		if text = strings.TrimSpace(text); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func readSpreadsheet(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", sheet)
		sb.WriteString(markdownTable(rows))
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// markdownTable renders rows with the first row as the header. Short rows
// are padded to the widest row.
func markdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	cells := func(row []string) string {
		out := make([]string, width)
		for i := range out {
			if i < len(row) {
				c := strings.ReplaceAll(row[i], "|", `\|`)
				out[i] = strings.ReplaceAll(c, "\n", " ")
			}
		}
		return "| " + strings.Join(out, " | ") + " |\n"
	}

	var sb strings.Builder
	sb.WriteString(cells(rows[0]))
	sb.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range rows[1:] {
		sb.WriteString(cells(row))
	}
	return sb.String()
}
