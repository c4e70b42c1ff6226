package engine

import (
	"strings"
	"testing"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeEngine(b *testing.B, lines int) *Engine {
	b.Helper()
	var sb strings.Builder
	line := strings.Repeat("x", 80) + "\n"
	for i := 0; i < lines; i++ {
		sb.WriteString(line)
	}
	return New(WithContent(sb.String()))
}

// ============================================================================
// Read Operation Benchmarks
// ============================================================================

func BenchmarkEngineText(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Text()
	}
}

func BenchmarkEngineSlice(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.Slice(1000, 2000)
	}
}

func BenchmarkEngineLineAt(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.LineAt((i * 4099) % e.Len())
	}
}

// ============================================================================
// Write Operation Benchmarks
// ============================================================================

func BenchmarkEngineInsert(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.Insert((i*7919)%e.Len(), "y")
	}
}

func BenchmarkEngineInsertWithMarks(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	for i := 0; i < 1000; i++ {
		_ = e.Mark("marks", i*500, i*500+10, "m")
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.Insert((i*7919)%e.Len(), "y")
	}
}

func BenchmarkEngineCommit(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.Replace(100, 110, "replacement")
		_ = e.Commit()
	}
}
