// Package driver ties scanning, document building and the snapshot cache
// into file- and directory-level operations for the CLI.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pbform/internal/build"
	"pbform/internal/diag"
	"pbform/internal/form"
	"pbform/internal/snapshot"
	"pbform/internal/source"
)

// FormExt is the designer file extension collected by directory walks.
const FormExt = ".pbf"

// Result is the outcome of processing one file.
type Result struct {
	Path   string
	FileID source.FileID
	Doc    *form.FormDocument
	Bag    *diag.Bag
}

// ParseBytes builds a document from raw bytes without touching the
// filesystem.
func ParseBytes(content []byte, maxDiagnostics int) (*form.FormDocument, *diag.Bag) {
	bag := diag.NewBag(maxDiagnostics)
	doc := build.Parse(content, bag)
	return doc, bag
}

// ParseFile loads one file into the set and builds its document.
func ParseFile(fileSet *source.FileSet, path string, maxDiagnostics int) (Result, error) {
	fileID, err := fileSet.Load(path)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("load %s: %w", path, err)
	}
	file := fileSet.Get(fileID)
	doc, bag := ParseBytes(file.Content, maxDiagnostics)
	return Result{Path: path, FileID: fileID, Doc: doc, Bag: bag}, nil
}

// ParseFileCached is ParseFile with a snapshot cache in front of the
// builder. A hit still reports diagnostics from the stored document's
// issues; a miss parses and stores. cache may be nil.
func ParseFileCached(fileSet *source.FileSet, path string, maxDiagnostics int, cache *snapshot.Cache) (Result, error) {
	fileID, err := fileSet.Load(path)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("load %s: %w", path, err)
	}
	file := fileSet.Get(fileID)

	key := snapshot.HashContent(file.Content)
	if payload, ok, err := cache.Get(key); err == nil && ok && payload.Doc != nil {
		bag := diag.NewBag(maxDiagnostics)
		for _, d := range payload.Doc.Meta.Issues {
			bag.Add(d)
		}
		return Result{Path: path, FileID: fileID, Doc: payload.Doc, Bag: bag}, nil
	}

	doc, bag := ParseBytes(file.Content, maxDiagnostics)
	if cache != nil {
		// best effort, a failed write never fails the parse
		_ = cache.Put(snapshot.FromDocument(doc, key))
	}
	return Result{Path: path, FileID: fileID, Doc: doc, Bag: bag}, nil
}

// ListFormFiles returns the sorted list of form files under dir.
func ListFormFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, FormExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir parses every form file under dir in parallel. Results come back
// in deterministic path order regardless of scheduling; per-file failures
// land in the result's Bag instead of aborting the run.
func CheckDir(ctx context.Context, dir string, maxDiagnostics, jobs int, sink ProgressSink) (*source.FileSet, []Result, error) {
	files, err := ListFormFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Preload sequentially: FileSet mutation is not concurrency-safe.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Slots are per-goroutine, no mutex needed.
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		emit(sink, Event{File: path, Stage: StageScan, Status: StatusQueued})
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			emit(sink, Event{File: path, Stage: StageScan, Status: StatusWorking})

			bag := diag.NewBag(maxDiagnostics)
			if loadErr, hadError := loadErrors[path]; hadError {
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				results[i] = Result{Path: path, Bag: bag}
				emit(sink, Event{File: path, Stage: StageScan, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			file := fileSet.Get(fileIDs[path])
			emit(sink, Event{File: path, Stage: StageBuild, Status: StatusWorking})
			doc := build.Parse(file.Content, bag)
			results[i] = Result{Path: path, FileID: fileIDs[path], Doc: doc, Bag: bag}

			status := StatusDone
			if bag.HasErrors() {
				status = StatusError
			}
			emit(sink, Event{File: path, Stage: StageCheck, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
