package testaiket

import (
	"context"
	"fmt"
	"strings"

	"ketscraper/internal/db"
)

// Category is a driving license class, it selects the question bank.
type Category string

const (
	CategoryA  Category = "A"
	CategoryB  Category = "B"
	CategoryC  Category = "C"
	CategoryCE Category = "CE"
	CategoryD  Category = "D"
)

var Categories = []Category{CategoryA, CategoryB, CategoryC, CategoryCE, CategoryD}

func ParseCategory(value string) (Category, error) {
	for _, c := range Categories {
		if string(c) == value {
			return c, nil
		}
	}
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return "", fmt.Errorf("invalid category %q, expected one of %s", value, strings.Join(names, ", "))
}

// QuestionsPerPage is the number of question blocks every listing page carries.
const QuestionsPerPage = 30

type Answer struct {
	Number  int64
	Text    string
	Correct bool
}

type Question struct {
	ID   int64
	Text string
	// Image is the base64 encoding of the image bytes, nil if the question has none.
	Image   []byte
	Answers []Answer
	// Explanation is the inner markup of the explanation block, empty if there is none.
	Explanation string
}

// Stager receives scraped rows, nothing is persisted until Flush.
type Stager interface {
	StageQuestion(db.CreateQuestionParams)
	StageAnswer(db.CreateAnswerParams)
	StageExplanation(db.CreateExplanationParams)
	Flush(ctx context.Context) error
}
