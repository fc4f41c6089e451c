package driver

import (
	"fmt"

	"lexcanon/internal/project"
	"lexcanon/internal/source"
)

// cacheKey: H(content || lexicon fingerprint || options). Всё, что меняет
// выход canonicalizeFile, должно попасть в ключ.
func cacheKey(file *source.File, opts *Options) project.Digest {
	flags := fmt.Sprintf("schema=%d;unknown=%t;trivia=%t;max=%d",
		diskCacheSchemaVersion, opts.ReportUnknown, opts.KeepTrivia, opts.MaxDiagnostics)
	return project.Combine(
		project.Digest(file.Hash),
		project.Digest(opts.Table.Fingerprint()),
		project.HashString(flags),
	)
}
