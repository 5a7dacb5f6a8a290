package tasks

import (
	"fmt"
	"sort"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/models"
)

type TaskListCmd struct {
	Open    bool `help:"Show only tasks that are not completed."`
	ShowIDs bool `help:"Show task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	tasks := ctx.Planner.ListTasks()
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	// Due date order; RFC3339 UTC strings sort chronologically
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate < tasks[j].DueDate
	})

	reminded := make(map[string]bool)
	for _, taskID := range ctx.Planner.Bindings() {
		reminded[taskID] = true
	}

	fmt.Println("Tasks:")
	for _, task := range tasks {
		if c.Open && task.Completed {
			continue
		}
		printTask(ctx, task, reminded[task.ID], c.ShowIDs)
	}
	return nil
}

func printTask(ctx *cli.Context, task models.Task, reminded, showIDs bool) {
	status := " "
	if task.Completed {
		status = "x"
	}

	idStr := ""
	if showIDs {
		idStr = fmt.Sprintf(" (ID: %s)", task.ID)
	}

	bell := ""
	if reminded {
		bell = " 🔔"
	}

	fmt.Printf("  [%s] %s%s - due %s (%s)%s\n",
		status, task.Title, idStr, cli.FormatLocal(task.DueDate, ctx.Location), task.Type, bell)
	if task.Desc != "" {
		fmt.Printf("      %s\n", task.Desc)
	}
	if task.ReminderTime != nil {
		fmt.Printf("      Reminder base: %s\n", cli.FormatOptional(task.ReminderTime, ctx.Location))
	}
}
