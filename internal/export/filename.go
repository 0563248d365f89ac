package export

import (
	"strings"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/problem"
)

// FileName returns the PDF file name of a document kind, e.g.
// "맞춤문제_문제지.pdf". base is expected to be sanitised already.
func FileName(base string, kind compose.Kind) string {
	return stem(base) + "_" + kind.Label() + ".pdf"
}

// JSONFileName returns the file name of an exported problem set.
func JSONFileName(base string) string {
	return stem(base) + "_문제.json"
}

func stem(base string) string {
	if s := strings.TrimSpace(base); s != "" {
		return s
	}
	return problem.DefaultBaseName
}
