// Package dl downloads all timeline documents into a directory tree
// and writes the event dumps and transaction export alongside them.
package dl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/eapache/channels"
	"github.com/gobwas/glob"
	"gopkg.in/matryer/try.v1"

	"github.com/SoerenFox/pytr-Modified/timeline"
	"github.com/SoerenFox/pytr-Modified/transactions"
	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/SoerenFox/pytr-Modified/utils/pool"
)

const (
	// DefaultFormat is the file name template; the variables are
	// iso_date, time, title, subtitle, doc_num and id.
	DefaultFormat  = "{iso_date} {time} {title}"
	defaultWorkers = 8
	retryCount     = 3
)

// Options configure a download run.
type Options struct {
	OutputDir string
	// Format is the file name template, DefaultFormat when empty.
	Format string
	// Since drops events older than the given time; zero keeps all.
	Since time.Time
	// Workers bounds the parallel downloads.
	Workers int
	// Universal sanitizes file names for cross-platform use.
	Universal bool
	// Filter is a glob matched against event titles, empty keeps all.
	Filter string
	// RegistryPath locates the incremental download registry; empty
	// disables it.
	RegistryPath string

	// Transaction export settings.
	ExportFormat string
	Exporter     transactions.Exporter
}

// Downloader drives one run.
type Downloader struct {
	api    timeline.API
	opts   Options
	filter glob.Glob
	reg    *Registry
	hc     *http.Client

	total   uint64
	skipped int
}

// New validates the options and loads the registry.
func New(api timeline.API, opts Options) (*Downloader, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory required")
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	d := &Downloader{
		api:  api,
		opts: opts,
		hc:   &http.Client{Timeout: 60 * time.Second},
	}
	if opts.Filter != "" {
		g, err := glob.Compile(opts.Filter)
		if err != nil {
			return nil, fmt.Errorf("bad filter %q: %w", opts.Filter, err)
		}
		d.filter = g
	}
	if opts.RegistryPath != "" {
		reg, err := LoadRegistry(opts.RegistryPath)
		if err != nil {
			return nil, err
		}
		d.reg = reg
	}
	return d, nil
}

type job struct {
	ctx  context.Context
	doc  timeline.Document
	path string
}

// Run collects the timeline, writes the event dumps and the
// transaction export, and downloads every new document.
func (d *Downloader) Run(ctx context.Context) error {
	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return err
	}

	res, err := timeline.Collect(ctx, d.api, d.opts.Since)
	if err != nil {
		return err
	}

	var withDocs, without []timeline.Event
	for _, ev := range res.Events() {
		if d.filter != nil && !d.filter.Match(ev.Title) {
			continue
		}
		if err := timeline.FetchDocuments(ctx, d.api, &ev); err != nil {
			log.Warn("no detail for event %s: %v", ev.ID, err)
		}
		if len(ev.Documents) > 0 {
			withDocs = append(withDocs, ev)
		} else {
			without = append(without, ev)
		}
	}

	if err := d.writeDumps(res, withDocs, without); err != nil {
		return err
	}
	if err := d.exportTransactions(res.Transactions); err != nil {
		return err
	}

	jobs := d.buildJobs(ctx, withDocs)
	log.Info("downloading %d documents with %d workers (%d already known)",
		len(jobs), d.opts.Workers, d.skipped)

	ch := channels.NewInfiniteChannel()
	p := pool.NewPool(d.opts.Workers, d.download)
	drained := make(chan struct{})
	go func() {
		p.Work(ch.Out())
		close(drained)
	}()
	for _, j := range jobs {
		ch.In() <- j
	}
	ch.Close()
	<-drained
	p.Wait()

	if d.reg != nil {
		if err := d.reg.Save(); err != nil {
			return fmt.Errorf("save download registry: %w", err)
		}
	}
	log.Info("downloaded %s into %s",
		bytefmt.ByteSize(atomic.LoadUint64(&d.total)), d.opts.OutputDir)
	return nil
}

// buildJobs plans the target paths, skipping known documents and
// de-duplicating file names with a counter.
func (d *Downloader) buildJobs(ctx context.Context, events []timeline.Event) []*job {
	var jobs []*job
	used := map[string]int{}
	for _, ev := range events {
		for i, doc := range ev.Documents {
			if doc.URL == "" {
				continue
			}
			if d.reg != nil && d.reg.Seen(doc.ID) {
				d.skipped++
				continue
			}
			path := d.docPath(ev, doc, i+1)
			if n := used[path]; n > 0 {
				used[path] = n + 1
				ext := filepath.Ext(path)
				path = strings.TrimSuffix(path, ext) + fmt.Sprintf(" (%d)", n) + ext
			} else {
				used[path] = 1
			}
			jobs = append(jobs, &job{ctx: ctx, doc: doc, path: path})
		}
	}
	return jobs
}

func (d *Downloader) download(v interface{}) {
	j := v.(*job)
	err := try.Do(func(attempt int) (bool, error) {
		return attempt < retryCount, d.fetch(j)
	})
	if err != nil {
		log.Error("download %s failed: %v", j.doc.ID, err)
		return
	}
	if d.reg != nil {
		d.reg.Add(j.doc.ID)
	}
	log.Debug("downloaded %s", j.path)
}

func (d *Downloader) fetch(j *job) error {
	req, err := http.NewRequestWithContext(j.ctx, http.MethodGet, j.doc.URL, nil)
	if err != nil {
		return err
	}
	resp, err := d.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status code %v", resp.StatusCode)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(j.path)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(j.path)
		return err
	}
	atomic.AddUint64(&d.total, uint64(n))
	return nil
}

// docPath renders <type>/<year>/<formatted name>.pdf under the output
// directory.
func (d *Downloader) docPath(ev timeline.Event, doc timeline.Document, num int) string {
	name := d.opts.Format
	for v, s := range map[string]string{
		"{iso_date}": ev.Timestamp.Format("2006-01-02"),
		"{time}":     ev.Timestamp.Format("15.04"),
		"{title}":    ev.Title,
		"{subtitle}": ev.Subtitle,
		"{doc_num}":  fmt.Sprintf("%d", num),
		"{id}":       doc.ID,
	} {
		name = strings.ReplaceAll(name, v, s)
	}
	name = d.sanitize(strings.TrimSpace(name))

	folder := ev.EventType
	if folder == "" {
		folder = "misc"
	}
	year := "undated"
	if !ev.Timestamp.IsZero() {
		year = ev.Timestamp.Format("2006")
	}
	return filepath.Join(d.opts.OutputDir, d.sanitize(folder), year, name+".pdf")
}

var (
	invalidAlways    = regexp.MustCompile(`[/\x00]`)
	invalidUniversal = regexp.MustCompile(`[\\/:*?"<>|\x00]`)
)

func (d *Downloader) sanitize(name string) string {
	if d.opts.Universal {
		return invalidUniversal.ReplaceAllString(name, "_")
	}
	return invalidAlways.ReplaceAllString(name, "_")
}

func (d *Downloader) writeDumps(res *timeline.Result, withDocs, without []timeline.Event) error {
	raws := func(events []timeline.Event) []json.RawMessage {
		out := make([]json.RawMessage, 0, len(events))
		for _, ev := range events {
			out = append(out, ev.Raw)
		}
		return out
	}
	dumps := map[string][]json.RawMessage{
		"all_events.json":            raws(res.Events()),
		"events_with_documents.json": raws(withDocs),
		"other_events.json":          raws(without),
	}
	for name, items := range dumps {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(d.opts.OutputDir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (d *Downloader) exportTransactions(events []timeline.Event) error {
	format := d.opts.ExportFormat
	if format == "" {
		format = "csv"
	}
	f, err := os.Create(filepath.Join(d.opts.OutputDir, "account_transactions."+format))
	if err != nil {
		return err
	}
	err = d.opts.Exporter.Export(f, events, format)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
