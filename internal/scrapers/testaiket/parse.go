package testaiket

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"ketscraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ImageFetcher returns the raw bytes of the image at src, src is taken
// verbatim from the page.
type ImageFetcher func(src string) ([]byte, error)

// ParseListing extracts the QuestionsPerPage question blocks of a listing page
// in order. Any block that lacks part of the expected markup fails the whole
// page with a *StructureError.
func ParseListing(doc *goquery.Document, fetchImage ImageFetcher) ([]Question, error) {
	questions := make([]Question, 0, QuestionsPerPage)
	for i := 1; i <= QuestionsPerPage; i++ {
		q, err := parseQuestion(doc, i, fetchImage)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func missing(i int, element string) error {
	return &StructureError{Question: i, Element: element}
}

func parseQuestion(doc *goquery.Document, i int, fetchImage ImageFetcher) (Question, error) {
	block := doc.Find(fmt.Sprintf("div#question_%d.ket_q_cont", i)).First()
	if block.Length() == 0 {
		return Question{}, missing(i, "question block")
	}
	body := block.Find("div.ket_q_body").First()
	if body.Length() == 0 {
		return Question{}, missing(i, "div.ket_q_body")
	}

	idValue, ok := block.Find("input").First().Attr("value")
	if !ok {
		return Question{}, missing(i, "question id input")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idValue), 10, 64)
	if err != nil {
		return Question{}, fmt.Errorf("question %d: parse id %q: %w", i, idValue, err)
	}

	prompt := body.Find("div.pText").First()
	if prompt.Length() == 0 {
		return Question{}, missing(i, "div.pText")
	}

	q := Question{
		ID:   id,
		Text: strings.TrimSpace(prompt.Text()),
	}

	q.Image, err = parseImage(block, i, fetchImage)
	if err != nil {
		return Question{}, err
	}

	q.Answers, err = parseAnswers(block, i)
	if err != nil {
		return Question{}, err
	}

	explanation := body.Find("div.ket_q_body2").First()
	if explanation.Length() == 0 {
		return Question{}, missing(i, "div.ket_q_body2")
	}
	inner, err := htmlutil.InnerHtml(explanation)
	if err != nil {
		return Question{}, fmt.Errorf("question %d: render explanation: %w", i, err)
	}
	q.Explanation = strings.TrimSpace(inner)

	return q, nil
}

// parseImage returns nil when the block has no image container. A container
// without an img src attribute is a structure error, an empty src is no image.
func parseImage(block *goquery.Selection, i int, fetchImage ImageFetcher) ([]byte, error) {
	container := block.Find("div.ket_img").First()
	if container.Length() == 0 {
		return nil, nil
	}
	src, ok := container.Find("img").First().Attr("src")
	if !ok {
		return nil, missing(i, "div.ket_img img[src]")
	}
	if src == "" {
		return nil, nil
	}

	raw, err := fetchImage(src)
	if err != nil {
		return nil, fmt.Errorf("question %d: fetch image %s: %w", i, src, err)
	}
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(encoded, raw)
	return encoded, nil
}

func parseAnswers(block *goquery.Selection, i int) ([]Answer, error) {
	background := block.Find("div.cBackground").First()
	if background.Length() == 0 {
		return nil, missing(i, "div.cBackground")
	}
	container := background.Find("div.ket_q_answers").First()
	if container.Length() == 0 {
		return nil, missing(i, "div.ket_q_answers")
	}

	rows := container.Find("div.ket_answer")
	answers := make([]Answer, 0, rows.Length())
	for idx := range rows.Nodes {
		row := rows.Eq(idx)

		rowId, ok := row.Attr("id")
		if !ok {
			return nil, missing(i, "div.ket_answer[id]")
		}
		suffix := rowId[strings.LastIndex(rowId, "_")+1:]
		number, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("question %d: parse answer number %q: %w", i, rowId, err)
		}

		cell := row.Find("table").First().Find("tr").First().Find("td.tdTable3").First()
		if cell.Length() == 0 {
			return nil, missing(i, fmt.Sprintf("answer %d td.tdTable3", number))
		}

		checkboxId := fmt.Sprintf("cb_%d_%d_correct", i, number)
		value, ok := container.Find("input#" + checkboxId).First().Attr("value")
		if !ok {
			return nil, missing(i, "input#"+checkboxId)
		}

		answers = append(answers, Answer{
			Number:  number,
			Text:    cell.Text(),
			Correct: value == "1",
		})
	}
	return answers, nil
}
