package analysis

import (
	"time"

	"github.com/itsatony/pumpguard/internal/models"
)

const dueDateLayout = "2006-01-02"

type planEntry struct {
	task     string
	priority models.Priority
	offset   int // days from today
}

var maintenancePlan = map[models.FaultLabel]planEntry{
	models.BearingFault: {task: "Lubricate Bearings", priority: models.PriorityUrgent, offset: 2},
	models.Misalignment: {task: "Realign Shaft", priority: models.PriorityMedium, offset: 4},
	models.Imbalance:    {task: "Vibration Check", priority: models.PriorityNextWeek, offset: 7},
}

var generalInspection = planEntry{task: "General inspection", priority: models.PriorityLow, offset: 10}

// PlanMaintenance turns fault counts into a task list. Normal never yields a
// task and every other nonzero label yields exactly one, in display order.
func PlanMaintenance(counts models.FaultCounts, today time.Time) []models.PlannedTask {
	labels := append(append([]models.FaultLabel{}, models.FaultLabels...), models.Unknown)

	tasks := make([]models.PlannedTask, 0)
	for _, l := range labels {
		n := counts.Get(l)
		if n <= 0 || !l.IsFault() {
			continue
		}
		entry, ok := maintenancePlan[l]
		if !ok {
			entry = generalInspection
		}
		tasks = append(tasks, models.PlannedTask{
			Fault:    l,
			Task:     entry.task,
			Priority: entry.priority,
			DueDate:  today.AddDate(0, 0, entry.offset).Format(dueDateLayout),
			Count:    n,
		})
	}
	return tasks
}
