package archive

import (
	"strings"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Storage layout: tenant-label/Processos/client-label/title-label/file.
// The path is the only index: every reader must derive the exact same
// prefix from the same inputs, so label folding has to be total and
// deterministic.
const (
	rootSegment      = "Processos"
	placeholderLabel = "NA"
	placeholderTitle = "Sem Titulo"
)

// stripMarks removes combining marks after NFD decomposition, folding
// "Ação" to "Acao".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldLabel turns arbitrary user text into a storage path segment:
// diacritics folded, path separators removed, whitespace collapsed.
// Returns fallback when nothing printable remains.
func foldLabel(s, fallback string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		// NFD decomposition cannot fail on valid UTF-8; treat garbage
		// input as empty.
		folded = ""
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// skip
		default:
			b.WriteRune(r)
		}
	}

	label := strings.Join(strings.Fields(b.String()), " ")
	if label == "" {
		return fallback
	}
	return label
}

// DerivePrefix maps an action's identity to its storage path prefix,
// ending in "/". Two independent callers passing the same inputs always
// get byte-identical output. The tenant label is mandatory: there is no
// default tenant.
func DerivePrefix(tenantLabel, clientName, clientDoc, title string) (string, error) {
	tenant := foldLabel(tenantLabel, "")
	if tenant == "" {
		return "", goerr.New("tenant label is required for storage addressing")
	}

	client := foldLabel(clientName, placeholderLabel) + " - " + foldLabel(clientDoc, placeholderLabel)
	titleSegment := foldLabel(title, placeholderTitle)

	return tenant + "/" + rootSegment + "/" + client + "/" + titleSegment + "/", nil
}

// SafeFilename folds a user-supplied filename with the same rules as
// path labels so a stored name can never escape its prefix.
func SafeFilename(name string) string {
	return foldLabel(name, "arquivo")
}
