package driver

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"qawarn/internal/qa"
	"qawarn/internal/trace"
)

// StdinPath names standard input in a path list.
const StdinPath = "-"

// Options controls AggregateFiles.
type Options struct {
	// Jobs limits concurrent file loads; <=0 means GOMAXPROCS.
	Jobs int
	// MaxGroups caps distinct groups in the merged set; 0 is unlimited.
	MaxGroups int
	// Normalize folds type and bucket id to NFC before aggregation.
	Normalize bool
	// Format overrides extension-based detection when not FormatAuto.
	Format   InputFormat
	Cache    *DiskCache
	Progress ProgressSink
	// Stdin is read for StdinPath; defaults to os.Stdin.
	Stdin io.Reader
}

// FileResult is the outcome of loading one input.
type FileResult struct {
	Path     string
	Warnings int
	Set      *qa.Set
	Cached   bool
	Err      error
}

// Result holds the merged reduction and the per-file outcomes in path order.
type Result struct {
	Set     *qa.Set
	Files   []FileResult
	Dropped int
}

// Failed returns the files that could not be loaded or decoded.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// ListInputs expands directories into the warning files they contain,
// sorted for a deterministic order. Explicit file arguments are kept as given
// regardless of extension; StdinPath passes through.
func ListInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if arg == StdinPath {
			files = append(files, arg)
			continue
		}
		st, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			files = append(files, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := inputExtensions[strings.ToLower(filepath.Ext(path))]; ok {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// AggregateFiles loads every input in parallel, reduces each file into its own
// set and merges the sets in path order. A file that fails to load becomes a
// FileResult with Err set; the other files still aggregate. Only context
// cancellation aborts the run.
func AggregateFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	files, err := ListInputs(paths)
	if err != nil {
		return nil, err
	}

	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeRun, "aggregate_files", trace.CurrentSpan(ctx))
	defer func() { runSpan.End("") }()
	runSpan.WithExtra("files", strconv.Itoa(len(files)))
	ctx = trace.WithSpan(ctx, runSpan)

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// indices are unique per goroutine, no mutex needed
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = loadFile(gctx, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := qa.NewSet(opts.MaxGroups)
	dropped := 0
	for _, fr := range results {
		if fr.Set == nil {
			continue
		}
		dropped += merged.AddAll(fr.Set.Items())
	}
	if dropped > 0 {
		trace.Point(tracer, trace.ScopeRun, "groups_dropped", strconv.Itoa(dropped), runSpan.ID())
	}
	runSpan.WithExtra("groups", strconv.Itoa(merged.Len()))

	return &Result{Set: merged, Files: results, Dropped: dropped}, nil
}

func loadFile(ctx context.Context, path string, opts Options) FileResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "load_file", trace.CurrentSpan(ctx))
	span.WithExtra("path", path)
	started := time.Now()

	fr := FileResult{Path: path}
	fail := func(stage Stage, err error) FileResult {
		fr.Err = err
		trace.Error(tracer, trace.ScopeFile, "load_file", err, span.ID())
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		span.End("error")
		return fr
	}

	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	data, err := readInput(path, opts.Stdin)
	if err != nil {
		return fail(StageRead, err)
	}

	format := opts.Format
	if format == FormatAuto {
		format = DetectFormat(path)
	}

	emit(opts.Progress, Event{File: path, Stage: StageDecode, Status: StatusWorking})
	records, cached, err := decodeCached(path, data, format, opts.Cache)
	if err != nil {
		return fail(StageDecode, fmt.Errorf("%s: %w", path, err))
	}
	fr.Cached = cached
	warnings, err := toWarnings(records)
	if err != nil {
		return fail(StageDecode, fmt.Errorf("%s: %w", path, err))
	}

	emit(opts.Progress, Event{File: path, Stage: StageAggregate, Status: StatusWorking, Warnings: len(warnings)})
	set := qa.NewSet(0)
	for _, w := range warnings {
		if opts.Normalize {
			w = normalizeKeys(w)
		}
		set.Add(w)
	}
	fr.Set = set
	fr.Warnings = len(warnings)

	trace.Point(tracer, trace.ScopeGroup, "file_groups", strconv.Itoa(set.Len()), span.ID())
	span.WithExtra("warnings", strconv.Itoa(len(warnings)))
	span.WithExtra("cached", strconv.FormatBool(cached))
	emit(opts.Progress, Event{File: path, Stage: StageAggregate, Status: StatusDone, Warnings: len(warnings), Elapsed: time.Since(started)})
	span.End("")
	return fr
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != StdinPath {
		return os.ReadFile(path)
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	return io.ReadAll(stdin)
}

// decodeCached consults the disk cache before decoding. Cache failures are
// not fatal: a broken entry is decoded again and overwritten.
func decodeCached(path string, data []byte, format InputFormat, cache *DiskCache) (records []qa.Record, hit bool, err error) {
	if cache == nil {
		records, err = Decode(data, format)
		return records, false, err
	}
	key := ContentDigest(data, format)
	var payload DiskPayload
	if ok, getErr := cache.Get(key, &payload); getErr == nil && ok {
		return payload.Records, true, nil
	}
	records, err = Decode(data, format)
	if err != nil {
		return nil, false, err
	}
	_ = cache.Put(key, &DiskPayload{Path: path, Records: records})
	return records, false, nil
}
