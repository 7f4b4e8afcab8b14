package testaiket

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"ketscraper/internal/components/assert"
	"ketscraper/internal/db"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("ketscraper/scrapers/testaiket")
var questionsCounter, _ = meter.Int64Counter("ket.questions_scraped")
var imagesCounter, _ = meter.Int64Counter("ket.images_fetched")

// listingPath builds the listing page query. group is passed through as is,
// what it selects on the site is not known.
func listingPath(category Category, group int) string {
	return fmt.Sprintf(
		"/index.php?mact=Ket,mb7908,default,1&mb7908cat=%s&mb7908group=%d&mb7908returnid=15&page=15",
		category, group,
	)
}

func (c *Client) fetchImage(ctx context.Context, src string) ([]byte, error) {
	ref, err := url.Parse(src)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseUrl.ResolveReference(ref).String()

	c.tel.ReportDebug("retrieving image", endpoint)

	res, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_image,
			fmt.Errorf("fetch: %w", err),
			endpoint,
		)
		return nil, err
	}
	if res.IsError() {
		c.tel.ReportWarning(report_client_fetch_image, "unexpected status", res.Status(), endpoint)
	}

	imagesCounter.Add(ctx, 1)
	return res.Body(), nil
}

// Scrape fetches the listing page of category and group, parses its question
// blocks, stages every row into out and flushes it. Nothing is staged when the
// page does not parse.
func (c *Client) Scrape(ctx context.Context, out Stager, category Category, group int) error {
	assert.NotNil(out)
	assert.NotEmptyStr(string(category))

	ctx, span := tracer.Start(ctx, "client:Scrape")
	defer span.End()
	span.SetAttributes(
		attribute.String("category", string(category)),
		attribute.Int("group", group),
	)

	scrapeError := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("testaiket: scrape %s/%d: %w", category, group, err)
	}

	endpoint := listingPath(category, group)
	c.tel.ReportDebug(report_client_scrape, endpoint)

	res, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		c.tel.ReportBroken(
			report_client_scrape,
			fmt.Errorf("fetch: %w", err),
			endpoint,
		)
		return scrapeError(err)
	}
	if res.IsError() {
		c.tel.ReportWarning(report_client_scrape, "unexpected status", res.Status(), endpoint)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(
			report_client_scrape,
			fmt.Errorf("parse: %w", err),
			endpoint,
		)
		return scrapeError(err)
	}

	questions, err := ParseListing(doc, func(src string) ([]byte, error) {
		return c.fetchImage(ctx, src)
	})
	if err != nil {
		c.tel.ReportBroken(report_client_scrape, err, endpoint)
		return scrapeError(err)
	}

	for _, q := range questions {
		c.tel.ReportDebug("extracting question", q.ID)
		stage(out, q)
	}

	c.tel.ReportDebug("committing to database", len(questions))
	err = out.Flush(ctx)
	if err != nil {
		return scrapeError(err)
	}

	questionsCounter.Add(ctx, int64(len(questions)), metric.WithAttributes(
		attribute.String("category", string(category)),
	))
	c.tel.ReportCount("questions-scraped", int64(len(questions)))
	return nil
}

func stage(out Stager, q Question) {
	out.StageQuestion(db.CreateQuestionParams{
		ID:    q.ID,
		Text:  q.Text,
		Image: q.Image,
	})
	for _, a := range q.Answers {
		out.StageAnswer(db.CreateAnswerParams{
			QuestionID: q.ID,
			Number:     a.Number,
			Text:       a.Text,
			Correct:    a.Correct,
		})
	}
	out.StageExplanation(db.CreateExplanationParams{
		QuestionID: q.ID,
		Text: sql.NullString{
			String: q.Explanation,
			Valid:  q.Explanation != "",
		},
	})
}

// ScrapeAndLogOut runs Scrape and logs out afterwards whether or not it
// succeeded. A failed log out is reported and never replaces the scrape result.
func (c *Client) ScrapeAndLogOut(ctx context.Context, out Stager, category Category, group int) error {
	defer func() {
		c.tel.ReportDebug("logging out")
		err := c.LogOut(context.WithoutCancel(ctx))
		if err != nil {
			c.tel.ReportWarning(report_client_log_out, err)
		}
	}()
	return c.Scrape(ctx, out, category, group)
}
