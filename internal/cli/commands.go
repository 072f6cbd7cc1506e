package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/tasklist/internal/export"
	"github.com/BuzzLyutic/tasklist/internal/model"
)

// dateInputLayout matches a datetime-local form field.
const dateInputLayout = "2006-01-02T15:04"

func (a *app) addCmd() *cobra.Command {
	var date, priority string

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format(dateInputLayout)
			}
			task, err := a.store.Add(cmd.Context(), strings.Join(args, " "), date, priority)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, task.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "due date, e.g. 2024-01-01T10:00 (default now)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high (default medium)")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var title, date, priority string

	cmd := &cobra.Command{
		Use:   "edit <ref>",
		Short: "Change a task's title, date or priority",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveRef(a.canonical(), args[0])
			if err != nil {
				return err
			}
			// flags left unset keep the current value
			if !cmd.Flags().Changed("title") {
				title = task.Title
			}
			if !cmd.Flags().Changed("date") {
				date = task.Date
			}
			if !cmd.Flags().Changed("priority") {
				priority = string(task.Priority)
			}

			_, err = a.store.Edit(cmd.Context(), task.ID, title, date, priority)
			return err
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new date")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <ref>",
		Aliases: []string{"toggle"},
		Short:   "Mark a task complete, or reopen it",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveRef(a.canonical(), args[0])
			if err != nil {
				return err
			}
			_, err = a.store.ToggleComplete(cmd.Context(), task.ID)
			return err
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref...>",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// resolve everything first: positions shift as tasks go
			tasks := a.canonical()
			ids := make([]string, 0, len(args))
			for _, ref := range args {
				task, err := resolveRef(tasks, ref)
				if err != nil {
					return err
				}
				ids = append(ids, task.ID)
			}
			for _, id := range ids {
				if err := a.store.Delete(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	var filter, sortKey string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}
			k, err := model.ParseSortKey(sortKey)
			if err != nil {
				return err
			}

			pos := make(map[string]int)
			for i, t := range a.canonical() {
				pos[t.ID] = i + 1
			}
			for _, t := range a.store.View(f, k) {
				formatTask(a.out, pos[t.ID], t)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, completed or incomplete")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "custom", "date, title or custom")
	return cmd
}

func (a *app) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <ref...>",
		Short: "Put the given tasks first, in the given order",
		Long: `Reorder the list. The named tasks come first in the order given;
every other task keeps its relative order after them.`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := a.canonical()
			ids := make([]string, 0, len(args))
			for _, ref := range args {
				task, err := resolveRef(tasks, ref)
				if err != nil {
					return err
				}
				ids = append(ids, task.ID)
			}
			return a.store.Reorder(cmd.Context(), ids)
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format, filter, sortKey string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write tasks as json, yaml or toml",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}
			k, err := model.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			return export.Write(a.out, format, a.store.View(f, k))
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatJSON, strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, completed or incomplete")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "custom", "date, title or custom")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.store.Stats()
			fmt.Fprintf(a.out, "total       %d\n", st.Total)
			fmt.Fprintf(a.out, "completed   %d\n", st.Completed)
			fmt.Fprintf(a.out, "incomplete  %d\n", st.Incomplete)
			for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
				fmt.Fprintf(a.out, "%-11s %d\n", p, st.ByPriority[p])
			}
			return nil
		},
	}
}
