package optimizer

import "fmt"

// PageReport is the read-only diagnosis of one page.
type PageReport struct {
	Page   int
	Images []*ImageRecord
}

// Inspect runs the inventory and classification passes over every page
// without mutating anything.
func (o *Optimizer) Inspect(input string) ([]PageReport, error) {
	doc, err := OpenDocument(input)
	if err != nil {
		return nil, err
	}

	var reports []PageReport
	for pageNr := 1; pageNr <= doc.PageCount(); pageNr++ {
		page, err := doc.Page(pageNr)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect page %d: %w", pageNr, err)
		}
		reports = append(reports, PageReport{
			Page:   pageNr,
			Images: o.Inventory(doc, page),
		})
	}
	return reports, nil
}
