// Package viewrouter maps a navigation token onto one of the dashboard views.
package viewrouter

import "strings"

// View identifies a top-level dashboard screen.
type View string

const (
	ViewUpload    View = "upload"
	ViewSummary   View = "summary"
	ViewTrend     View = "trend"
	ViewScheduler View = "scheduler"
	ViewHeatmap   View = "heatmap"
	ViewSimulator View = "simulator"
	ViewNone      View = "none"
)

// DefaultView is selected for an empty token.
const DefaultView = ViewUpload

// Views lists the navigable views in navbar order.
var Views = []View{ViewUpload, ViewSummary, ViewTrend, ViewScheduler, ViewHeatmap, ViewSimulator}

// Resolve selects the view for a token such as "#summary" or "summary".
// Unrecognised tokens resolve to ViewNone.
func Resolve(token string) View {
	token = strings.TrimPrefix(strings.TrimSpace(token), "#")
	if token == "" {
		return DefaultView
	}
	for _, v := range Views {
		if string(v) == strings.ToLower(token) {
			return v
		}
	}
	return ViewNone
}

// Token returns the fragment form of the view.
func (v View) Token() string {
	return "#" + string(v)
}
