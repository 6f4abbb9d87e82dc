package chunker

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitByStructure_ShortTextSingleChunk(t *testing.T) {
	got := SplitByStructure("Madde 1\n\nMadde 2", StructureOptions{})
	want := []string{"Madde 1\n\nMadde 2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSplitByStructure_WordsNoOverlap(t *testing.T) {
	got := SplitByStructure("aaaa bbbb cccc", StructureOptions{ChunkSize: 10, Overlap: 0})
	want := []string{"aaaa bbbb", "cccc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSplitByStructure_WordsWithOverlap(t *testing.T) {
	got := SplitByStructure("aaaa bbbb cccc", StructureOptions{ChunkSize: 10, Overlap: 5})
	want := []string{"aaaa bbbb", "bbbb cccc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSplitByStructure_FallsBackToCharacters(t *testing.T) {
	got := SplitByStructure("abcdefghij", StructureOptions{ChunkSize: 4, Overlap: 0})
	want := []string{"abcd", "efgh", "ij"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSplitByStructure_PrefersParagraphs(t *testing.T) {
	text := "Birinci paragraf.\n\nİkinci paragraf.\n\nÜçüncü paragraf."
	got := SplitByStructure(text, StructureOptions{ChunkSize: 20, Overlap: 0})
	want := []string{"Birinci paragraf.", "İkinci paragraf.", "Üçüncü paragraf."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSplitByStructure_SentenceSeparatorKept(t *testing.T) {
	got := SplitByStructure("Bir. İki. Üç", StructureOptions{ChunkSize: 6, Overlap: 0})
	want := []string{"Bir", ". İki", ". Üç"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSplitByStructure_CountsRunes(t *testing.T) {
	// 10 runes, 20 bytes.
	text := "ğğğğğ üüüü"
	got := SplitByStructure(text, StructureOptions{ChunkSize: 10, Overlap: 0})
	if len(got) != 1 || got[0] != text {
		t.Errorf("expected single chunk %q, got %q", text, got)
	}
}

func TestSplitByStructure_EmptyAndWhitespace(t *testing.T) {
	if got := SplitByStructure("", StructureOptions{}); len(got) != 0 {
		t.Errorf("expected no chunks, got %q", got)
	}
	if got := SplitByStructure(" \n\n \n ", StructureOptions{}); len(got) != 0 {
		t.Errorf("expected no chunks for whitespace, got %q", got)
	}
}

func TestSplitByStructure_BoundedLength(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("Öğrenci yönergesinin bu maddesi kayıt yenileme işlemlerini düzenler. ")
		if i%7 == 0 {
			b.WriteString("\n")
		}
		if i%13 == 0 {
			b.WriteString("\n\n")
		}
	}
	b.WriteString(strings.Repeat("x", 500))

	opts := StructureOptions{ChunkSize: 300, Overlap: 50}
	chunks := SplitByStructure(b.String(), opts)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > opts.ChunkSize || n == 0 {
			t.Errorf("chunk %d has length %d", i, n)
		}
	}
}

func TestSplitByStructure_OverlapCarriesContext(t *testing.T) {
	text := strings.Repeat("kelime ", 100)
	chunks := SplitByStructure(text, StructureOptions{ChunkSize: 50, Overlap: 20})
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		if !strings.HasPrefix(chunks[i], prevWords[len(prevWords)-1]) {
			t.Errorf("chunk %d does not start with the last word of chunk %d", i, i-1)
		}
	}
}

func TestStructureOptions_Normalised(t *testing.T) {
	o := StructureOptions{ChunkSize: 100, Overlap: 150}.normalised()
	if o.Overlap >= o.ChunkSize {
		t.Error("overlap should be reduced when it exceeds chunk size")
	}

	o = StructureOptions{}.normalised()
	if o.ChunkSize != DefaultChunkSize {
		t.Errorf("expected default chunk size, got %d", o.ChunkSize)
	}
	if !reflect.DeepEqual(o.Separators, DefaultSeparators) {
		t.Errorf("expected default separators, got %q", o.Separators)
	}
}

func TestSplitKeepingSeparator(t *testing.T) {
	tests := []struct {
		text string
		sep  string
		want []string
	}{
		{"a\n\nb", "\n\n", []string{"a", "\n\nb"}},
		{"a\n\n", "\n\n", []string{"a", "\n\n"}},
		{"\n\na", "\n\n", []string{"\n\na"}},
		{"üç", "", []string{"ü", "ç"}},
	}
	for _, tt := range tests {
		got := splitKeepingSeparator(tt.text, tt.sep)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitKeepingSeparator(%q, %q) = %q, want %q", tt.text, tt.sep, got, tt.want)
		}
	}
}
