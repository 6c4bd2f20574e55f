package precompute

import (
	"fmt"
	"testing"

	"github.com/chilitreat/postindex/internal/content"
	"github.com/chilitreat/postindex/internal/memo"
	"github.com/chilitreat/postindex/internal/query"
)

var benchTags = []string{"go", "React", "React.js", "web", "日記", "cli", "testing", "rust"}

// benchCollection builds n posts with three tags each, one per day.
func benchCollection(n int) content.Collection {
	c := make(content.Collection, n)
	for i := 0; i < n; i++ {
		tags := []any{
			benchTags[i%len(benchTags)],
			benchTags[(i+3)%len(benchTags)],
			benchTags[(i+5)%len(benchTags)],
		}
		date := fmt.Sprintf("%d/%d/%d", 2015+i/365%10, i/28%12+1, i%28+1)
		c[fmt.Sprintf("post-%05d", i)] = post(fmt.Sprintf("Post %d", i), date, tags)
	}
	return c
}

func benchStore(b *testing.B) *Store {
	b.Helper()
	c, err := memo.New(memo.DefaultSize)
	if err != nil {
		b.Fatal(err)
	}
	return New(query.New(c))
}

func BenchmarkBuild_Cold(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run(fmt.Sprintf("posts=%d", n), func(b *testing.B) {
			c := benchCollection(n)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s := benchStore(b)
				s.Build(c)
			}
		})
	}
}

func BenchmarkRefreshIfNeeded_Fresh(b *testing.B) {
	s := benchStore(b)
	c := benchCollection(1000)
	s.Build(c)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.RefreshIfNeeded(c)
	}
}

func BenchmarkByTagFast(b *testing.B) {
	s := benchStore(b)
	c := benchCollection(1000)
	s.Build(c)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.ByTagFast("react", c)
	}
}

func BenchmarkFilterByTag_Scan(b *testing.B) {
	s := benchStore(b)
	c := benchCollection(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.engine.FilterByTag(c, "react")
	}
}
