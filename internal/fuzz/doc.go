// Package fuzztests houses Go fuzz harnesses for the canonicalization
// pipeline (source -> tokenizer -> canonicalizer -> renderer). Its goal is to
// smoke test robustness and guard against panics or broken spans on arbitrary
// inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через токенизатор и канонизатор для каждой встроенной локали.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/canon,
// internal/render, internal/lexicon, internal/testkit.

package fuzztests
