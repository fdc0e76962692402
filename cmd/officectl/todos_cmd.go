package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/modules/todo/services"
)

type expandOutput struct {
	Title string   `json:"title"`
	Dates []string `json:"dates"`
}

func newTodosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Todo routine helpers",
	}
	cmd.AddCommand(newExpandRoutineCmd())
	return cmd
}

// newExpandRoutineCmd prints the dates a routine definition falls on. It
// never writes; the API endpoint performs the real expansion.
func newExpandRoutineCmd() *cobra.Command {
	var (
		data     todo.RoutineDTO
		timezone string
	)
	cmd := &cobra.Command{
		Use:   "expand-routine",
		Short: "Dry run a routine expansion",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return err
			}
			dates, err := services.Plan(&data, loc)
			if err != nil {
				return err
			}
			out := expandOutput{Title: data.Title, Dates: make([]string, 0, len(dates))}
			for _, d := range dates {
				out.Dates = append(out.Dates, d.Format(time.DateOnly))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&data.Title, "title", "", "Routine title (required)")
	cmd.Flags().Int64SliceVar(&data.UserIDs, "users", nil, "Target user ids")
	cmd.Flags().StringVar(&data.Category, "category", "", "Target user category")
	cmd.Flags().StringVar(&data.StartDate, "start", time.Now().Format(time.DateOnly), "First date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&data.Interval, "interval", 1, "Repeat every N units")
	cmd.Flags().StringVar(&data.Unit, "unit", "day", "day, week, month or year")
	cmd.Flags().IntVar(&data.Count, "count", 0, "Number of occurrences")
	cmd.Flags().IntVar(&data.PerInterval, "per-interval", 0, "Occurrences per interval")
	cmd.Flags().IntSliceVar(&data.DaysOfWeek, "days", nil, "Weekdays for weekly routines (0=Sunday)")
	cmd.Flags().StringVar(&timezone, "tz", "Asia/Jakarta", "Business timezone")
	return cmd
}
