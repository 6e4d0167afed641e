package views

// HomePageData drives the info page.
type HomePageData struct {
	Seasons []string
}

// ChartImage is one season's chart on the chart page.
type ChartImage struct {
	Title string
	Src   string
}

// ChartPageData drives the chart page.
type ChartPageData struct {
	Teams    []string
	Selected string
	Charts   []ChartImage
}

// NotFoundPageData drives the 404 page.
type NotFoundPageData struct {
	Message string
}
