package extractor

const untitledWork = "Untitled Work"

var (
	worksCollectionKeys = []string{"portfolio_works", "works"}
	workTitleKeys       = []string{"title", "name"}
	workURLKeys         = []string{"url", "link", "href", "src"}
	workDescriptionKeys = []string{"description", "caption", "text", "summary"}
)

// WorkItem is a portfolio piece as found on the page.
type WorkItem struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
}

// NormalizeWorks maps the works collection onto WorkItems. Every element yields
// exactly one item; missing titles and urls fall back to defaults.
func NormalizeWorks(raw Value) []WorkItem {
	collection := ResolveCollection(raw, worksCollectionKeys...)
	works := make([]WorkItem, 0, len(collection))
	for _, element := range collection {
		item := WorkItem{
			Title:       untitledWork,
			Description: Resolve(element, workDescriptionKeys...),
		}
		if title := Resolve(element, workTitleKeys...); title != nil {
			item.Title = *title
		}
		if url := Resolve(element, workURLKeys...); url != nil {
			item.URL = *url
		}
		works = append(works, item)
	}
	return works
}
