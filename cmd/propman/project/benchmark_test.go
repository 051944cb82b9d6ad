package project

import (
	"os"
	"path/filepath"
	"testing"
)

func benchmarkFile(b *testing.B, name, content string) string {
	b.Helper()
	path := filepath.Join(b.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkLoadProject(b *testing.B) {
	path := benchmarkFile(b, "Bench.vcxproj", testProjectXML)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := LoadProject(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkActiveSheets(b *testing.B) {
	proj, err := LoadProject(benchmarkFile(b, "Bench.vcxproj", testProjectXML))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = proj.ActiveSheets("Debug|Win32")
	}
}

// BenchmarkAddRemoveSheet measures one full load-mutate-save cycle per operation.
func BenchmarkAddRemoveSheet(b *testing.B) {
	proj, err := LoadProject(benchmarkFile(b, "Bench.vcxproj", testProjectXML))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		if err := proj.AddSheet("Release|Win32", `..\props\openssl.props`); err != nil {
			b.Fatal(err)
		}
		if _, err := proj.RemoveSheet("Release|Win32", "openssl"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPropertySheetInsert(b *testing.B) {
	sheet, err := LoadPropertySheet(benchmarkFile(b, "bench.props", testSheetXML))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		if err := sheet.InsertPreprocessorDefinition("BENCH"); err != nil {
			b.Fatal(err)
		}
		if err := sheet.RemovePreprocessorDefinition("BENCH"); err != nil {
			b.Fatal(err)
		}
	}
}
