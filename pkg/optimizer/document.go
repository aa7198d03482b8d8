package optimizer

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document wraps an open PDF. The value is exclusively owned by the run
// that opened it: every stage mutates objects through this handle and the
// file on disk is only touched by SaveTo.
type Document struct {
	ctx  *model.Context
	path string
}

// Page is the per-page view the inventory pass works from.
type Page struct {
	Number    int
	WidthPts  float64
	HeightPts float64

	xObjects types.Dict
	doc      *Document
}

// OpenDocument reads a PDF into memory. Missing files and encrypted
// documents are fatal; nothing is written in either case.
func OpenDocument(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file not accessible: %w", err)
	}

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		if isEncryptionError(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrPasswordProtected)
		}
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	if ctx.Encrypt != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrPasswordProtected)
	}

	return &Document{ctx: ctx, path: path}, nil
}

func isEncryptionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}

// Path returns the file the document was read from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Page resolves the page dictionary and its image resources. Page numbers
// are 1-based.
func (d *Document) Page(n int) (*Page, error) {
	pageDict, _, inhAttrs, err := d.ctx.PageDict(n, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve page %d: %w", n, err)
	}

	p := &Page{Number: n, doc: d}

	// Letter-sized fallback keeps DPI estimation sane when the media box
	// is missing or degenerate.
	p.WidthPts, p.HeightPts = 612, 792
	if inhAttrs != nil && inhAttrs.MediaBox != nil {
		if w, h := inhAttrs.MediaBox.Width(), inhAttrs.MediaBox.Height(); w > 0 && h > 0 {
			p.WidthPts, p.HeightPts = w, h
		}
	}

	var resources types.Dict
	if inhAttrs != nil && inhAttrs.Resources != nil {
		resources = inhAttrs.Resources
	} else if o, found := pageDict.Find("Resources"); found {
		resources, err = d.ctx.DereferenceDict(o)
		if err != nil {
			return p, nil // page without readable resources has no images
		}
	}
	if resources == nil {
		return p, nil
	}

	if o, found := resources.Find("XObject"); found {
		if xd, err := d.ctx.DereferenceDict(o); err == nil {
			p.xObjects = xd
		}
	}

	return p, nil
}

// ImageNames returns the resource keys of the page's image XObjects in a
// deterministic order.
func (p *Page) ImageNames() []string {
	var names []string
	for name, o := range p.xObjects {
		sd, err := p.doc.streamDict(o)
		if err != nil || sd == nil {
			continue
		}
		if st := sd.Subtype(); st == nil || *st != "Image" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// imageStream resolves a named XObject to its stream dictionary.
func (p *Page) imageStream(name string) (*types.StreamDict, error) {
	o, found := p.xObjects.Find(name)
	if !found {
		return nil, fmt.Errorf("no XObject named %s", name)
	}
	return p.doc.streamDict(o)
}

func (d *Document) streamDict(o types.Object) (*types.StreamDict, error) {
	sd, _, err := d.ctx.DereferenceStreamDict(o)
	if err != nil {
		return nil, err
	}
	return sd, nil
}

// dereference resolves indirect references to their target object.
func (d *Document) dereference(o types.Object) (types.Object, error) {
	return d.ctx.Dereference(o)
}

// SaveTo serializes the full document into memory and writes it to path
// in one step, so a failure mid-serialization never leaves a truncated
// file behind.
func (d *Document) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return fmt.Errorf("failed to serialize PDF: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
