package text

import (
	"fmt"
	"testing"
)

func benchDoc(lines int) *Text {
	content := make([]string, lines)
	for i := range content {
		content[i] = fmt.Sprintf("line %d of the benchmark document", i)
	}
	return Of(content...)
}

func BenchmarkReplace(b *testing.B) {
	doc := benchDoc(100000)
	ins := Of("x")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos := (i * 7919) % doc.Len()
		doc = doc.Replace(pos, pos, ins)
	}
}

func BenchmarkLineAt(b *testing.B) {
	doc := benchDoc(100000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = doc.LineAt((i * 7919) % doc.Len())
	}
}

func BenchmarkSliceString(b *testing.B) {
	doc := benchDoc(100000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := (i * 7919) % (doc.Len() - 1000)
		_ = doc.SliceString(from, from+1000, "\n")
	}
}
