package htmlxpath

import (
	"fmt"
	"strings"
	"testing"
)

// BenchmarkParsing benchmarks XPath expression parsing without the cache.
func BenchmarkParsing(b *testing.B) {
	expressions := []string{
		"//book[@id='1']",
		"/root/child::element[@attr='value']",
		"//item[last()]",
		"//*[@id='test' or @class='example']",
		"//div[contains(text(),'select')]",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		expr := expressions[i%len(expressions)]
		if _, err := Parse(expr); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParsingWithCache benchmarks the same expressions through a
// pre-warmed Cache.
func BenchmarkParsingWithCache(b *testing.B) {
	expressions := []string{
		"//book[@id='1']",
		"/root/child::element[@attr='value']",
		"//item[last()]",
		"//*[@id='test' or @class='example']",
		"//div[contains(text(),'select')]",
	}

	c := NewCache(len(expressions))
	for _, expr := range expressions {
		if _, err := c.CompileCached(expr); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		expr := expressions[i%len(expressions)]
		if _, err := c.CompileCached(expr); err != nil {
			b.Fatal(err)
		}
	}
}

func benchLibraryMarkup() string {
	return `<library>
		<book id="1" genre="fiction">
			<title>The Great Novel</title>
			<author>John Doe</author>
			<price>29.99</price>
		</book>
		<book id="2" genre="science">
			<title>Quantum Physics</title>
			<author>Jane Smith</author>
			<price>39.99</price>
		</book>
		<book id="3" genre="fiction">
			<title>Another Story</title>
			<author>Bob Wilson</author>
			<price>24.99</price>
		</book>
	</library>`
}

// BenchmarkApply benchmarks full parse-and-apply evaluation.
func BenchmarkApply(b *testing.B) {
	doc, err := ParseHTML(strings.NewReader(benchLibraryMarkup()))
	if err != nil {
		b.Fatal(err)
	}
	tree := Build(doc)

	expressions := []string{
		"//book[@genre='fiction']",
		"//author",
		"/library/book[position() = 2]",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		expr := expressions[i%len(expressions)]
		xp, err := Parse(expr)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := Apply(xp, tree); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDocumentOrderSort benchmarks sorting a wide result set into
// document order.
func BenchmarkDocumentOrderSort(b *testing.B) {
	var markup strings.Builder
	markup.WriteString(`<root>`)
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&markup, `<item id="%d">Value %d</item>`, i, i)
	}
	markup.WriteString(`</root>`)

	doc, err := ParseHTML(strings.NewReader(markup.String()))
	if err != nil {
		b.Fatal(err)
	}
	tree := Build(doc)

	xp, err := Parse("//item")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Apply(xp, tree); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkComplexPredicate benchmarks nested-predicate evaluation over a
// document with several sections.
func BenchmarkComplexPredicate(b *testing.B) {
	markup := `<root>
		<section id="1">
			<para>First paragraph in section 1</para>
			<para>Second paragraph in section 1</para>
			<para>Third paragraph in section 1</para>
		</section>
		<section id="2">
			<para>First paragraph in section 2</para>
			<para>Second paragraph in section 2</para>
		</section>
		<section id="3">
			<para>Only paragraph in section 3</para>
		</section>
	</root>`

	doc, err := ParseHTML(strings.NewReader(markup))
	if err != nil {
		b.Fatal(err)
	}
	tree := Build(doc)

	xp, err := Parse("//section/para[position() = last()]")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Apply(xp, tree); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkConcurrentApply benchmarks concurrent Apply calls sharing one
// immutable Tree and one compiled Xpath, matching this library's
// read-many/write-never concurrency model.
func BenchmarkConcurrentApply(b *testing.B) {
	doc, err := ParseHTML(strings.NewReader(`<root><item>1</item><item>2</item><item>3</item></root>`))
	if err != nil {
		b.Fatal(err)
	}
	tree := Build(doc)

	xp, err := Parse("//item")
	if err != nil {
		b.Fatal(err)
	}

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Apply(xp, tree); err != nil {
				b.Fatal(err)
			}
		}
	})
}
