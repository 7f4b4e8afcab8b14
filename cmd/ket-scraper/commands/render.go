package commands

import (
	"fmt"
	"io"
	"strings"

	"ketscraper/internal/store"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetOutputMirror(out)
	return t
}

func answerLines(record store.Record) string {
	lines := make([]string, len(record.Answers))
	for i, a := range record.Answers {
		mark := " "
		if a.Correct {
			mark = "*"
		}
		lines[i] = fmt.Sprintf("%s %d. %s", mark, a.Number, strings.TrimSpace(a.Text))
	}
	return strings.Join(lines, "\n")
}

func explanationMarkdown(converter *md.Converter, record store.Record) (string, error) {
	if !record.Explanation.Valid {
		return "", nil
	}
	return converter.ConvertString(record.Explanation.String)
}

// renderQuestions prints records as a table, with explanations converted to
// markdown when withExplanations is set.
func renderQuestions(out io.Writer, records []store.Record, withExplanations bool) error {
	t := newTable(out)

	header := table.Row{"ID", "Question", "Image", "Answers"}
	if withExplanations {
		header = append(header, "Explanation")
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Question", WidthMax: 48},
		{Name: "Answers", WidthMax: 48},
		{Name: "Explanation", WidthMax: 64},
		{Name: "Image", Align: text.AlignRight},
	})

	converter := md.NewConverter("", true, nil)
	for _, record := range records {
		image := "-"
		if record.Question.Image != nil {
			image = fmt.Sprintf("%d B", len(record.Question.Image))
		}
		row := table.Row{record.Question.ID, record.Question.Text, image, answerLines(record)}
		if withExplanations {
			explanation, err := explanationMarkdown(converter, record)
			if err != nil {
				return fmt.Errorf("question %d: convert explanation: %w", record.Question.ID, err)
			}
			row = append(row, explanation)
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d questions", len(records))})
	t.Render()
	return nil
}
