package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("testaiket", rec)

	scoped.ReportBroken("client.log-in", "boom")
	scoped.ReportWarning("client.scrape")
	scoped.ReportDebug("fetch image", "/img.png")
	scoped.ReportCount("questions", 30)

	reports := rec.Reports("")
	require.Len(t, reports, 4)
	require.Equal(t, "testaiket: client.log-in", reports[0].Id)
	require.Equal(t, []any{"boom"}, reports[0].Params)
	require.Equal(t, "testaiket: client.scrape", reports[1].Id)
	require.Equal(t, "testaiket: fetch image", reports[2].Id)
	require.Equal(t, int64(30), reports[3].Count)

	require.Len(t, rec.Reports("warning"), 1)
}

func TestInitSlog(t *testing.T) {
	defaultLogger := slog.Default()
	defer slog.SetDefault(defaultLogger)

	var buff bytes.Buffer
	initSlog(&buff, false)
	SlogAPI{}.ReportDebug("hidden")
	SlogAPI{}.ReportWarning("shown", 1)
	require.NotContains(t, buff.String(), "hidden")
	require.Contains(t, buff.String(), "id=shown")
	require.Contains(t, buff.String(), "params.0=1")

	buff.Reset()
	initSlog(&buff, true)
	SlogAPI{}.ReportDebug("visible")
	require.Contains(t, buff.String(), "visible")
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.Write([]byte("hello there"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	output, err := NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec, output)

	_, err = client.R().
		SetContext(context.Background()).
		SetFormData(map[string]string{"key": "value"}).
		Post(server.URL + "/form")
	if err != nil {
		t.Fatal(err)
	}

	debug := rec.Reports("debug")
	require.Len(t, debug, 2)
	require.Equal(t, report_resty_request, debug[0].Id)
	require.Equal(t, report_resty_response, debug[1].Id)

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(contents)
	require.True(t, strings.HasPrefix(text, "---- REQUEST ----"))
	require.Contains(t, text, "key=value")
	require.Contains(t, text, "X-Test: yes")
	require.Contains(t, text, "hello there")
}

func TestInstrumentRestyError(t *testing.T) {
	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec, nil)

	_, err := client.R().Get("http://127.0.0.1:0/unreachable")
	require.Error(t, err)

	broken := rec.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, report_resty_response, broken[0].Id)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	if err != nil {
		t.Fatal(err)
	}
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
