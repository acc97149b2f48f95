package analysis

import (
	"fmt"

	"github.com/itsatony/pumpguard/internal/models"
)

// AllNormalNotice is shown when every classified record was Normal.
const AllNormalNotice = "All systems normal: no faults detected"

var suggestions = map[models.FaultLabel]string{
	models.BearingFault: "Inspect and lubricate bearings",
	models.Misalignment: "Realign motor-pump coupling",
	models.Imbalance:    "Recalibrate impeller",
	models.Cavitation:   "Check suction head and inlet pressure",
	models.Normal:       "No action required",
	models.Unknown:      "Review readings manually",
}

// SuggestionFor returns the canned maintenance advice for a label.
func SuggestionFor(l models.FaultLabel) string {
	if s, ok := suggestions[l]; ok {
		return s
	}
	return suggestions[models.Unknown]
}

// Summarize lists every label of the taxonomy with its count, pairs each
// detected label with a suggestion, and flags the all-normal case.
func Summarize(counts models.FaultCounts, total int) models.SummaryReport {
	report := models.SummaryReport{
		TotalRecords: total,
		Lines:        make([]models.SummaryLine, 0, len(models.FaultLabels)+1),
		Suggestions:  make([]models.Suggestion, 0),
	}

	labels := models.FaultLabels
	if counts.Get(models.Unknown) > 0 {
		labels = append(append([]models.FaultLabel{}, labels...), models.Unknown)
	}
	for _, l := range labels {
		n := counts.Get(l)
		report.Lines = append(report.Lines, models.SummaryLine{
			Fault: l,
			Count: n,
			Text:  fmt.Sprintf("%s → %d %s", l, n, instances(n)),
		})
		if n > 0 {
			report.Suggestions = append(report.Suggestions, models.Suggestion{
				Fault:      l,
				Count:      n,
				Suggestion: SuggestionFor(l),
			})
		}
	}

	if total > 0 && counts.Get(models.Normal) == total {
		report.AllNormal = true
		report.NormalNotice = AllNormalNotice
	}
	return report
}

func instances(n int) string {
	if n == 1 {
		return "instance"
	}
	return "instances"
}
