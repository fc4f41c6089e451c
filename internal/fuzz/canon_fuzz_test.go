package fuzztests

import (
	"testing"

	"lexcanon/internal/canon"
	"lexcanon/internal/diag"
	"lexcanon/internal/lexer"
	"lexcanon/internal/lexicon"
	"lexcanon/internal/render"
	"lexcanon/internal/source"
	"lexcanon/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func fuzzFile(input []byte) *source.File {
	if len(input) > maxFuzzInput {
		input = append([]byte(nil), input[:maxFuzzInput]...)
	} else {
		input = append([]byte(nil), input...)
	}
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("fuzz.lc", input))
}

func FuzzTokenize(f *testing.F) {
	addCorpusSeeds(f)
	reg := lexicon.MustDefault()
	f.Fuzz(func(t *testing.T, input []byte) {
		file := fuzzFile(input)
		for _, tbl := range reg.Tables() {
			bag := diag.NewBag(64)
			stream, err := lexer.Tokenize(file, tbl, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
			if err != nil {
				// невалидный UTF-8 отклоняется целиком
				continue
			}
			if err := testkit.CheckRawInvariants(file, stream.Collect()); err != nil {
				t.Fatalf("%s: %v", tbl.ID(), err)
			}
		}
	})
}

func FuzzCanonicalize(f *testing.F) {
	addCorpusSeeds(f)
	reg := lexicon.MustDefault()
	f.Fuzz(func(t *testing.T, input []byte) {
		file := fuzzFile(input)
		tables := reg.Tables()
		for _, tbl := range tables {
			bag := diag.NewBag(64)
			toks, err := canon.Source(file, tbl, canon.Options{
				Reporter:      diag.BagReporter{Bag: bag},
				KeepTrivia:    true,
				ReportUnknown: true,
			})
			if err != nil {
				continue
			}
			if err := testkit.CheckTokenInvariants(file, toks); err != nil {
				t.Fatalf("%s: %v", tbl.ID(), err)
			}
			// рендер в любую локаль не должен паниковать
			for _, target := range tables {
				_ = render.Text(toks, target)
			}
		}
	})
}
