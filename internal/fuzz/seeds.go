package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"lexcanon/internal/lexicon"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	"令 总数 为 1\n",
	"若用户的名字大于等于 3，则\n  返回 「好」。",
	"let total be 0x_FF // done\r\n",
	"\uFEFF\"unterminated",
	"$ @ ~ 1e ¿",
	"1.5e+3 0b102 0o78 1_000",
	"吗喽 的 的名字",
	"「未结束\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
	addLexiconSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.lc файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".lc" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addLexiconSeeds adds every surface form of every embedded locale, one seed
// per locale, so the fuzzer starts from inputs that hit the keyword trie.
func addLexiconSeeds(f *testing.F) {
	reg, err := lexicon.Default()
	if err != nil {
		return
	}
	for _, tbl := range reg.Tables() {
		var seed []byte
		for _, e := range tbl.Entries() {
			seed = append(seed, e.Form...)
			seed = append(seed, ' ')
		}
		if len(seed) > 0 {
			f.Add(clampSeed(seed))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
