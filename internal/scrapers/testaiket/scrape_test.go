package testaiket

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"ketscraper/internal/components/telemetry"
	"ketscraper/internal/db"
	"ketscraper/internal/store"

	"github.com/stretchr/testify/require"
)

func openMemoryStore(t testing.TB) store.Store {
	s, err := store.Open(context.Background(), ":memory:", &telemetry.Recorder{}, store.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestListingPath(t *testing.T) {
	require.Equal(
		t,
		"/index.php?mact=Ket,mb7908,default,1&mb7908cat=CE&mb7908group=3&mb7908returnid=15&page=15",
		listingPath(CategoryCE, 3),
	)
}

func TestScrape(t *testing.T) {
	ctx := context.Background()
	site := newFakeSite(t)
	client, rec := newTestClient(t, site, "", fakeSessionId)
	s := openMemoryStore(t)

	err := client.Scrape(ctx, s.Batch(), CategoryB, 7)
	if err != nil {
		t.Fatal(err)
	}

	query, _ := site.listingRequest()
	require.Equal(t, "B", query.Get("mb7908cat"))
	require.Equal(t, "7", query.Get("mb7908group"))

	records, err := s.Questions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, records, QuestionsPerPage)

	for idx, r := range records {
		i := idx + 1
		require.Equal(t, int64(1000+i), r.Question.ID)
		require.NotEmpty(t, r.Question.Text)

		if i%3 == 0 {
			require.Equal(t, base64.StdEncoding.EncodeToString(imageBytes(i)), string(r.Question.Image))
		} else {
			require.Nil(t, r.Question.Image)
		}

		require.Len(t, r.Answers, 3)
		for nidx, a := range r.Answers {
			n := nidx + 1
			require.Equal(t, db.Answer{
				QuestionID: r.Question.ID,
				Number:     int64(n),
				Text:       fmt.Sprintf("Atsakymas %d", n),
				Correct:    n == (i%3)+1,
			}, a)
		}

		if i%2 == 0 {
			require.False(t, r.Explanation.Valid, "question %d", i)
		} else {
			require.True(t, r.Explanation.Valid, "question %d", i)
			require.Equal(t, expectedExplanation(i), r.Explanation.String)
		}
	}

	counts := rec.Reports("count")
	require.NotEmpty(t, counts)
	require.Equal(t, int64(QuestionsPerPage), counts[len(counts)-1].Count)
}

func TestScrapeEmptyCategory(t *testing.T) {
	site := newFakeSite(t)
	client, _ := newTestClient(t, site, "", fakeSessionId)
	s := openMemoryStore(t)

	require.Panics(t, func() {
		client.Scrape(context.Background(), s.Batch(), "", 0)
	})
	_, listings, _ := site.counts()
	require.Zero(t, listings)
}

func TestScrapeTwice(t *testing.T) {
	ctx := context.Background()
	site := newFakeSite(t)
	client, _ := newTestClient(t, site, "", fakeSessionId)
	s := openMemoryStore(t)

	err := client.Scrape(ctx, s.Batch(), CategoryA, 0)
	if err != nil {
		t.Fatal(err)
	}
	err = client.Scrape(ctx, s.Batch(), CategoryA, 0)
	require.ErrorContains(t, err, "UNIQUE constraint failed")

	count, err := s.CountQuestions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, int64(QuestionsPerPage), count)
}

func TestScrapeStructureErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	site := newFakeSite(t)
	site.setListing(defaultBlocks()[:12])
	client, _ := newTestClient(t, site, "", fakeSessionId)
	s := openMemoryStore(t)

	batch := s.Batch()
	err := client.Scrape(ctx, batch, CategoryC, 0)
	require.ErrorIs(t, err, ErrMissingElement)
	require.Zero(t, batch.Len())

	count, err := s.CountQuestions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Zero(t, count)
}

func TestScrapeAndLogOut(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		site := newFakeSite(t)
		client, _ := newTestClient(t, site, "1234", "")
		s := openMemoryStore(t)

		_, err := client.LogIn(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		err = client.ScrapeAndLogOut(context.Background(), s.Batch(), CategoryD, 1)
		if err != nil {
			t.Fatal(err)
		}

		logins, listings, logouts := site.counts()
		require.Equal(t, 1, logins)
		require.Equal(t, 1, listings)
		require.Equal(t, 1, logouts)
	})

	t.Run("failure", func(t *testing.T) {
		site := newFakeSite(t)
		site.setListing(nil)
		client, _ := newTestClient(t, site, "", fakeSessionId)
		s := openMemoryStore(t)

		err := client.ScrapeAndLogOut(context.Background(), s.Batch(), CategoryB, 0)
		require.ErrorIs(t, err, ErrMissingElement)

		_, _, logouts := site.counts()
		require.Equal(t, 1, logouts)
	})

	t.Run("cancelled", func(t *testing.T) {
		site := newFakeSite(t)
		client, _ := newTestClient(t, site, "", fakeSessionId)
		s := openMemoryStore(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := client.ScrapeAndLogOut(ctx, s.Batch(), CategoryB, 0)
		require.Error(t, err)

		_, listings, logouts := site.counts()
		require.Zero(t, listings)
		require.Equal(t, 1, logouts)
	})
}

func TestScrapeAndLogOutKeepsScrapeError(t *testing.T) {
	site := newFakeSite(t)
	site.setListing(nil)
	client, rec := newTestClient(t, site, "", fakeSessionId)
	s := openMemoryStore(t)

	// shutting the site down makes both the scrape and the log out fail
	site.server.Close()

	err := client.ScrapeAndLogOut(context.Background(), s.Batch(), CategoryB, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "testaiket: scrape B/0")

	var loggedOut bool
	for _, report := range rec.Reports("warning") {
		if report.Id == "testaiket: "+report_client_log_out {
			loggedOut = true
		}
	}
	require.True(t, loggedOut)
}
