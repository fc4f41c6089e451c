package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"lexcanon/internal/diag"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/source"
	"lexcanon/internal/token"
	"lexcanon/internal/trace"
)

// DirResult содержит результат канонизации одного файла
type DirResult struct {
	Path   string        // Путь к файлу
	FileID source.FileID // ID файла в FileSet
	Tokens []token.Token // Канонические токены файла
	Bag    *diag.Bag     // Диагностики
	Cached bool
	// Text is filled by TranslateDir.
	Text string
}

// ListSourceFiles возвращает отсортированный список файлов с расширениями
// exts в директории dir (рекурсивно).
func ListSourceFiles(dir string, exts []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

// CanonicalizeDir канонизирует все исходники в директории параллельно.
// Результаты идут в порядке ListSourceFiles; ошибка возвращается только при
// отмене ctx или сбое обхода директории.
func CanonicalizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []DirResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "canonicalize-dir", trace.CurrentSpan(ctx).SpanID)
	defer span.End(dir)

	files, err := ListSourceFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен на запись: загружаем всё заранее
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	done := opts.Timer.Track(PhaseLoad)
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}
	done(dir)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]DirResult, len(files))

	// по файлам фазы не пишем, только общая
	fileOpts := opts
	fileOpts.Timer = nil
	done = opts.Timer.Track(PhaseCanonicalize)
	defer func() { done(dir) }()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.MaxDiagnostics)
			if loadErr, hadError := loadErrors[path]; hadError {
				bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{},
					"failed to load file: "+loadErr.Error()).WithArgs(path))
				results[i] = DirResult{Path: path, Bag: bag}
				opts.notify(PhaseEvent{File: path, Name: PhaseLoad, Status: PhaseFailed})
				return nil
			}

			fileID := fileIDs[path]
			fileSpan := trace.BeginFile(tracer, "file", path, span.ID())
			toks, cached := canonicalizeFile(gctx, fileSet.Get(fileID), bag, &fileOpts, fileSpan.ID())
			fileSpan.End("")

			results[i] = DirResult{
				Path:   path,
				FileID: fileID,
				Tokens: toks,
				Bag:    bag,
				Cached: cached,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// TranslateDir is CanonicalizeDir followed by rendering every file in target.
func TranslateDir(ctx context.Context, dir string, opts Options, target *lexicon.Table) (*source.FileSet, []DirResult, error) {
	fileSet, results, err := CanonicalizeDir(ctx, dir, opts)
	if err != nil {
		return fileSet, results, err
	}
	for i := range results {
		results[i].Text = renderText(ctx, results[i].Tokens, target, results[i].Bag, &opts)
	}
	return fileSet, results, nil
}

// MergeBags collects per-file diagnostics into one sorted bag.
func MergeBags(results []DirResult, maxDiagnostics int) *diag.Bag {
	out := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		if r.Bag != nil {
			out.Merge(r.Bag)
		}
	}
	out.Sort()
	return out
}
