// Package pdf extracts display titles for uploaded papers.
//
// A paper's title comes from a three-step fallback chain: the uploader's
// explicit form title, the PDF's /Title metadata entry, and finally the
// filename. Extraction is best-effort — a malformed PDF degrades to the
// filename rather than failing the upload.
package pdf

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Title sources, logged alongside the extracted title.
const (
	SourceForm     = "form"
	SourcePDF      = "pdf"
	SourceFilename = "filename"
	SourceUnknown  = "unknown"
)

var disableConfigDirOnce sync.Once

// ExtractTitle reads the /Title entry from the PDF's document information
// dictionary. The reader is rewound before and after, so the caller can
// keep using it. Relaxed validation: arXiv PDFs routinely violate strict
// conformance and we only want one metadata field.
func ExtractTitle(rs io.ReadSeeker, filename string) (string, error) {
	if rs == nil {
		return "", errors.New("pdf: missing reader")
	}

	// pdfcpu otherwise tries to create a config dir under $HOME.
	disableConfigDirOnce.Do(api.DisableConfigDir)

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	conf := pdfcpumodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfcpumodel.ValidationRelaxed

	info, err := api.PDFInfo(rs, filename, nil, conf)
	if _, seekErr := rs.Seek(0, io.SeekStart); seekErr != nil && err == nil {
		err = seekErr
	}
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", nil
	}
	return strings.TrimSpace(info.Title), nil
}

// InferTitle applies the fallback chain and reports which source won.
//
// The filename fallback strips the directory and extension, maps "_" and
// "-" to spaces, and upper-cases the result — mirroring how arXiv-style
// filenames ("attention_is_all_you_need.pdf") read as titles.
func InferTitle(formTitle, pdfTitle, filename string) (string, string) {
	if title := strings.TrimSpace(formTitle); title != "" {
		return title, SourceForm
	}
	if title := strings.TrimSpace(pdfTitle); title != "" {
		return title, SourcePDF
	}

	base := strings.TrimSpace(filepath.Base(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base != "" && base != "." {
		return strings.ToUpper(base), SourceFilename
	}
	return "", SourceUnknown
}
