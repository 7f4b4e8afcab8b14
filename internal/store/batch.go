package store

import (
	"context"
	"fmt"

	"ketscraper/internal/db"
)

// Batch stages rows in memory and writes all of them in one transaction on
// Flush. There is no upsert, a row whose key already exists fails the whole
// flush with the driver's error.
type Batch struct {
	store        Store
	questions    []db.CreateQuestionParams
	answers      []db.CreateAnswerParams
	explanations []db.CreateExplanationParams
}

func (b *Batch) StageQuestion(q db.CreateQuestionParams) {
	b.questions = append(b.questions, q)
}

func (b *Batch) StageAnswer(a db.CreateAnswerParams) {
	b.answers = append(b.answers, a)
}

func (b *Batch) StageExplanation(e db.CreateExplanationParams) {
	b.explanations = append(b.explanations, e)
}

// Len returns the number of staged rows across all tables.
func (b *Batch) Len() int {
	return len(b.questions) + len(b.answers) + len(b.explanations)
}

// Flush commits every staged row, questions first so foreign keys resolve.
// The batch is emptied only when the commit succeeds.
func (b *Batch) Flush(ctx context.Context) error {
	tel := b.store.tel

	tx, discard, commit, err := b.store.makeTx(ctx)
	if err != nil {
		tel.ReportBroken(report_batch_flush, fmt.Errorf("make tx: %w", err))
		return err
	}
	defer discard()

	for _, q := range b.questions {
		err = tx.CreateQuestion(ctx, q)
		if err != nil {
			tel.ReportBroken(report_db_query, err, "CreateQuestion", q.ID)
			return fmt.Errorf("insert question %d: %w", q.ID, err)
		}
	}
	for _, a := range b.answers {
		err = tx.CreateAnswer(ctx, a)
		if err != nil {
			tel.ReportBroken(report_db_query, err, "CreateAnswer", a.QuestionID, a.Number)
			return fmt.Errorf("insert answer %d of question %d: %w", a.Number, a.QuestionID, err)
		}
	}
	for _, e := range b.explanations {
		err = tx.CreateExplanation(ctx, e)
		if err != nil {
			tel.ReportBroken(report_db_query, err, "CreateExplanation", e.QuestionID)
			return fmt.Errorf("insert explanation of question %d: %w", e.QuestionID, err)
		}
	}

	err = commit()
	if err != nil {
		tel.ReportBroken(report_batch_flush, fmt.Errorf("commit: %w", err))
		return err
	}

	tel.ReportCount("questions-written", int64(len(b.questions)))
	b.questions = nil
	b.answers = nil
	b.explanations = nil
	return nil
}
