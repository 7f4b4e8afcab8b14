package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ketscraper/internal/components/assert"
	"ketscraper/internal/components/telemetry"
	"ketscraper/internal/db"
)

const (
	report_db_query    = "db.query"
	report_batch_flush = "batch.flush"
)

// Store persists scraped questions, answers and explanations.
type Store struct {
	conn   *sql.DB
	qry    *db.Queries
	makeTx db.MakeTx
	tel    telemetry.API
}

type Options struct {
	// Echo reports every statement executed against the database at debug level.
	Echo bool
}

func NewStore(conn *sql.DB, tel telemetry.API, opts Options) Store {
	assert.NotNil(conn)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("store", tel)

	var wrap func(db.DBTX) db.DBTX
	if opts.Echo {
		wrap = func(inner db.DBTX) db.DBTX {
			return echoDBTX{inner: inner, tel: tel}
		}
	}

	var dbtx db.DBTX = conn
	if wrap != nil {
		dbtx = wrap(conn)
	}

	return Store{
		conn:   conn,
		qry:    db.New(dbtx),
		makeTx: db.NewMakeTx(conn, wrap),
		tel:    tel,
	}
}

// Open resolves dsn, creates the schema if needed and returns a Store on it.
func Open(ctx context.Context, dsn string, tel telemetry.API, opts Options) (Store, error) {
	conn, err := OpenDB(ctx, dsn)
	if err != nil {
		return Store{}, err
	}
	return NewStore(conn, tel, opts), nil
}

func (s Store) Close() error {
	return s.conn.Close()
}

// Batch creates an empty staging batch bound to this store.
func (s Store) Batch() *Batch {
	return &Batch{store: s}
}

// Record is a stored question with its answers and explanation.
type Record struct {
	Question    db.Question
	Answers     []db.Answer
	Explanation sql.NullString
}

// Questions reads back every stored question ordered by id.
func (s Store) Questions(ctx context.Context) ([]Record, error) {
	questions, err := s.qry.GetQuestions(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetQuestions")
		return nil, err
	}

	records := make([]Record, len(questions))
	for i, q := range questions {
		answers, err := s.qry.GetQuestionAnswers(ctx, q.ID)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "GetQuestionAnswers", q.ID)
			return nil, err
		}

		explanation, err := s.qry.GetExplanation(ctx, q.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			s.tel.ReportBroken(report_db_query, err, "GetExplanation", q.ID)
			return nil, err
		}

		records[i] = Record{
			Question:    q,
			Answers:     answers,
			Explanation: explanation.Text,
		}
	}

	return records, nil
}

func (s Store) CountQuestions(ctx context.Context) (int64, error) {
	count, err := s.qry.CountQuestions(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "CountQuestions")
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}
