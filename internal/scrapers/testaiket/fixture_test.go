package testaiket

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

type fixtureImage struct {
	src   string
	noSrc bool
	noTag bool
}

type fixtureAnswer struct {
	text  string
	value string
}

type fixtureBlock struct {
	id          string
	text        string
	image       *fixtureImage
	answers     []fixtureAnswer
	explanation string
	// answer number whose correctness checkbox is left out, 0 for none
	omitCheckbox int
}

func imageSrc(i int) string {
	return fmt.Sprintf("images/ket/q%d.png", i)
}

func imageBytes(i int) []byte {
	return []byte(fmt.Sprintf("\x89PNG fake image %d", i))
}

// defaultBlocks describes a well formed page: every third question has an
// image, even questions have no explanation, answer (i%3)+1 is correct.
func defaultBlocks() []fixtureBlock {
	blocks := make([]fixtureBlock, QuestionsPerPage)
	for i := 1; i <= QuestionsPerPage; i++ {
		b := fixtureBlock{
			id:   fmt.Sprint(1000 + i),
			text: fmt.Sprintf("\n   Kokiu greičiu galima važiuoti? (%d)\n  ", i),
		}
		if i%3 == 0 {
			b.image = &fixtureImage{src: imageSrc(i)}
		}
		for n := 1; n <= 3; n++ {
			value := "0"
			if n == (i%3)+1 {
				value = "1"
			}
			b.answers = append(b.answers, fixtureAnswer{
				text:  fmt.Sprintf("Atsakymas %d", n),
				value: value,
			})
		}
		if i%2 == 1 {
			b.explanation = fmt.Sprintf("\n  <p>Taisyklė <b>%d</b> taikoma.</p>\n  ", i)
		} else {
			b.explanation = "   "
		}
		blocks[i-1] = b
	}
	return blocks
}

func expectedExplanation(i int) string {
	if i%2 == 0 {
		return ""
	}
	return fmt.Sprintf("<p>Taisyklė <b>%d</b> taikoma.</p>", i)
}

func renderListing(blocks []fixtureBlock) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><title>KET testai</title></head><body>\n")
	b.WriteString(`<form id="ket_test" method="post">` + "\n")

	for idx, block := range blocks {
		i := idx + 1
		fmt.Fprintf(&b, `<div id="question_%d" class="ket_q_cont">`+"\n", i)
		fmt.Fprintf(&b, `<input type="hidden" name="question_id_%d" value="%s">`+"\n", i, block.id)
		b.WriteString(`<div class="ket_q_body">` + "\n")
		fmt.Fprintf(&b, `<div class="pText">%s</div>`+"\n", block.text)
		if block.image != nil {
			switch {
			case block.image.noTag:
				b.WriteString(`<div class="ket_img"></div>`)
			case block.image.noSrc:
				b.WriteString(`<div class="ket_img"><img alt="paveikslas"></div>`)
			default:
				fmt.Fprintf(&b, `<div class="ket_img"><img src="%s" alt="paveikslas"></div>`, block.image.src)
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, `<div class="ket_q_body2">%s</div>`+"\n", block.explanation)
		b.WriteString("</div>\n")

		b.WriteString(`<div class="cBackground"><div class="ket_q_answers">` + "\n")
		for nidx, answer := range block.answers {
			n := nidx + 1
			fmt.Fprintf(&b, `<div class="ket_answer" id="ket_answer_%d_%d">`, i, n)
			fmt.Fprintf(&b, `<table><tr><td class="tdTable1">%d.</td><td class="tdTable3">%s</td></tr></table>`, n, answer.text)
			b.WriteString("</div>\n")
			if n != block.omitCheckbox {
				fmt.Fprintf(&b, `<input type="hidden" id="cb_%d_%d_correct" value="%s">`+"\n", i, n, answer.value)
			}
		}
		b.WriteString("</div></div>\n")
		b.WriteString("</div>\n")
	}

	b.WriteString("</form>\n</body></html>\n")
	return b.String()
}

func parseFixture(t testing.TB, blocks []fixtureBlock) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(renderListing(blocks)))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}
