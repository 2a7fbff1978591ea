package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jibinz12/cerebra-app/internal/bootstrap"
	focusdomain "github.com/Jibinz12/cerebra-app/internal/modules/focus/domain"
	focusdto "github.com/Jibinz12/cerebra-app/internal/modules/focus/dto"
	plandto "github.com/Jibinz12/cerebra-app/internal/modules/plan/dto"
	quizdomain "github.com/Jibinz12/cerebra-app/internal/modules/quiz/domain"
	"github.com/Jibinz12/cerebra-app/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "cerebra",
		Short:         "Terminal study planner",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(cfgPath)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/cerebra/config.yaml)")

	root.AddCommand(newTUICmd(&cfgPath))
	root.AddCommand(newPlanCmd(&cfgPath))
	root.AddCommand(newCalendarCmd(&cfgPath))
	root.AddCommand(newFocusCmd(&cfgPath))
	root.AddCommand(newQuizCmd(&cfgPath))
	root.AddCommand(newStatsCmd(&cfgPath))
	root.AddCommand(newLogCmd(&cfgPath))
	root.AddCommand(newServeCmd(&cfgPath))
	return root
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = defaultPath
	}
	return config.Load(path)
}

func loadApp(path string) (*bootstrap.App, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg), nil
}

func runTUI(path string) error {
	app, err := loadApp(path)
	if err != nil {
		return err
	}
	return bootstrap.RunTUI(app)
}

func newTUICmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the full-screen study planner",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(*cfgPath)
		},
	}
}

func newPlanCmd(cfgPath *string) *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "Generate and inspect study plans"}

	var topics []string
	var hours int
	var energy, start, date string
	var save bool
	generate := &cobra.Command{
		Use:   "generate --topics <a,b> --hours <n>",
		Short: "Generate a schedule for the day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(topics) == 0 {
				return fmt.Errorf("--topics is required")
			}
			if hours <= 0 {
				return fmt.Errorf("--hours must be positive")
			}
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			out, err := app.PlanCLI.Generate(context.Background(), topics, hours, energy, start, date)
			if err != nil {
				return err
			}
			printSchedule(cmd, out)
			if !save {
				return nil
			}
			saved, err := app.PlanCLI.SaveDay(context.Background(), out)
			if err != nil {
				return fmt.Errorf("saved %d of %d slots: %w", saved.Created, len(out.Items), err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %d slots to %s\n", saved.Created, saved.Schedule.Date)
			return nil
		},
	}
	generate.Flags().StringSliceVar(&topics, "topics", nil, "topics to study")
	generate.Flags().IntVar(&hours, "hours", 2, "hours available")
	generate.Flags().StringVar(&energy, "energy", "Medium", "energy level: Low|Medium|High")
	generate.Flags().StringVar(&start, "start", "", "start time HH:MM (default now)")
	generate.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	generate.Flags().BoolVar(&save, "save", false, "save the generated plan to the calendar")

	var showDate string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the saved plan for a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			out, err := app.PlanCLI.LoadDay(context.Background(), showDate)
			if err != nil {
				return err
			}
			if len(out.Items) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no plan for %s\n", out.Date)
				return nil
			}
			printSchedule(cmd, out)
			return nil
		},
	}
	show.Flags().StringVar(&showDate, "date", "", "date YYYY-MM-DD (default today)")

	analyze := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Extract topics from a syllabus file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			out, err := app.PlanCLI.AnalyzeSyllabus(context.Background(), filepath.Base(args[0]), content)
			if err != nil {
				return err
			}
			if len(out.Topics) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no topics found")
				return nil
			}
			for _, topic := range out.Topics {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), topic)
			}
			return nil
		},
	}

	plan.AddCommand(generate, show, analyze)
	return plan
}

func printSchedule(cmd *cobra.Command, out plandto.ScheduleOutput) {
	for _, item := range out.Items {
		marker := " "
		if item.Completed {
			marker = "x"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s (%s)\n", marker, item.Time, item.Task, item.Type)
	}
	if out.Tip != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tip: %s\n", out.Tip)
	}
}

func newCalendarCmd(cfgPath *string) *cobra.Command {
	calendar := &cobra.Command{Use: "calendar", Short: "Work with saved calendar slots"}

	var listDate string
	list := &cobra.Command{
		Use:   "list",
		Short: "List calendar slots with their ids",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			out, err := app.PlanCLI.LoadDay(context.Background(), listDate)
			if err != nil {
				return err
			}
			if len(out.Items) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no slots on %s\n", out.Date)
				return nil
			}
			for _, item := range out.Items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", item.ID, item.Time, item.Task, item.Type)
			}
			return nil
		},
	}
	list.Flags().StringVar(&listDate, "date", "", "date YYYY-MM-DD (default today)")

	var editID int64
	var editTask, editTime string
	edit := &cobra.Command{
		Use:   "edit --id <id> --task <text> --time <range>",
		Short: "Rewrite one slot's task and time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if editID == 0 {
				return fmt.Errorf("--id is required")
			}
			if strings.TrimSpace(editTask) == "" || strings.TrimSpace(editTime) == "" {
				return fmt.Errorf("--task and --time are required")
			}
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			if err := app.PlanCLI.UpdateTask(context.Background(), editID, editTask, editTime); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "slot %d updated\n", editID)
			return nil
		},
	}
	edit.Flags().Int64Var(&editID, "id", 0, "slot id (from calendar list)")
	edit.Flags().StringVar(&editTask, "task", "", "new task text")
	edit.Flags().StringVar(&editTime, "time", "", "new time range, e.g. 09:00 - 10:30")

	var deleteID int64
	deleteCmd := &cobra.Command{
		Use:   "delete --id <id>",
		Short: "Delete one slot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deleteID == 0 {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			if err := app.PlanCLI.DeleteTask(context.Background(), deleteID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "slot %d deleted\n", deleteID)
			return nil
		},
	}
	deleteCmd.Flags().Int64Var(&deleteID, "id", 0, "slot id (from calendar list)")

	var resetDate string
	var resetAll bool
	reset := &cobra.Command{
		Use:   "reset --date <date> | --all",
		Short: "Clear one day or the whole calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resetDate == "" && !resetAll {
				return fmt.Errorf("pass --date <YYYY-MM-DD> or --all")
			}
			if resetAll {
				resetDate = ""
			}
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			if err := app.PlanCLI.ClearDay(context.Background(), resetDate); err != nil {
				return err
			}
			if resetAll {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "calendar cleared")
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", resetDate)
			}
			return nil
		},
	}
	reset.Flags().StringVar(&resetDate, "date", "", "date to clear")
	reset.Flags().BoolVar(&resetAll, "all", false, "clear every saved day")

	calendar.AddCommand(list, edit, deleteCmd, reset)
	return calendar
}

func newFocusCmd(cfgPath *string) *cobra.Command {
	var task string
	var minutes int
	cmd := &cobra.Command{
		Use:   "focus --task <name>",
		Short: "Run a focus session in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(task) == "" {
				return fmt.Errorf("--task is required")
			}
			if minutes <= 0 {
				return fmt.Errorf("--minutes must be positive")
			}
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			return runFocus(cmd, app, task, minutes)
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "what to focus on")
	cmd.Flags().IntVar(&minutes, "minutes", 25, "session length")
	return cmd
}

// runFocus blocks for the whole session. Interrupting forfeits the
// award; only a session ridden to zero books XP.
func runFocus(cmd *cobra.Command, app *bootstrap.App, task string, minutes int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "focusing on %s for %d minutes (ctrl+c abandons)\n", task, minutes)

	timer := time.NewTimer(time.Duration(minutes) * time.Minute)
	defer timer.Stop()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	remaining := minutes
	for {
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "abandoned, no award")
			return nil
		case <-ticker.C:
			remaining--
			if remaining > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d min left\n", remaining)
			}
		case <-timer.C:
			out, err := app.Focus.Complete(context.Background(), focusdto.CompletionInput{Task: task, PlannedMinutes: minutes})
			if err != nil {
				return fmt.Errorf("session done, award failed: %w", err)
			}
			if out.LogDropped {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history row dropped; totals still updated")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session complete: +%d XP, level %d (%d total)\n", focusdomain.CompleteXP, out.Level, out.TotalXP)
			return nil
		}
	}
}

func newQuizCmd(cfgPath *string) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "quiz --topic <name>",
		Short: "Take a quick quiz on a topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(topic) == "" {
				return fmt.Errorf("--topic is required")
			}
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			return runQuiz(cmd, app, topic)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "quiz topic")
	return cmd
}

func runQuiz(cmd *cobra.Command, app *bootstrap.App, topic string) error {
	ctx := context.Background()
	quiz, err := app.QuizCLI.Start(ctx, topic)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	score := 0
	for i, q := range quiz.Questions {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d  %s\n", i+1, len(quiz.Questions), q.Prompt)
		for n, option := range q.Options {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d) %s\n", n+1, option)
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "> ")
		if !scanner.Scan() {
			break
		}
		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || choice < 1 || choice > len(q.Options) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "skipped (answer: %s)\n", q.Answer)
			continue
		}
		if q.Options[choice-1] == q.Answer {
			score++
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "correct")
		} else {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrong (answer: %s)\n", q.Answer)
		}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d correct\n", score, len(quiz.Questions))
	fin, err := app.QuizCLI.Finish(ctx, quiz.Topic, score*quizdomain.XPPerCorrect)
	if err != nil {
		return fmt.Errorf("quiz done, logging failed: %w", err)
	}
	if !fin.Refreshed {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no points this round, nothing logged")
		return nil
	}
	if fin.LogDropped {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history row dropped; totals still updated")
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "+%d XP, level %d (%d total)\n", fin.XPGained, fin.Level, fin.TotalXP)
	return nil
}

func newStatsCmd(cfgPath *string) *cobra.Command {
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show XP, level, and session history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Stats(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "level %d  %d XP (%d/%d into this level)\n", out.Level, out.TotalXP, out.LevelProgress, out.LevelStep)
			for _, e := range out.History {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %dm  %+d\n", e.Timestamp.Format("2006-01-02 15:04"), e.Topic, e.Minutes, e.XP)
			}
			return nil
		},
	}

	var resetXP bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Clear session history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			if err := app.ProgressCLI.ResetHistory(context.Background(), resetXP); err != nil {
				return err
			}
			if resetXP {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history and XP cleared")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history cleared, XP kept")
			}
			return nil
		},
	}
	reset.Flags().BoolVar(&resetXP, "xp", false, "also zero total XP")
	stats.AddCommand(reset)
	return stats
}

func newLogCmd(cfgPath *string) *cobra.Command {
	var topic string
	var minutes, xp int
	cmd := &cobra.Command{
		Use:   "log --topic <name> --minutes <n>",
		Short: "Log a study session by hand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(topic) == "" {
				return fmt.Errorf("--topic is required")
			}
			if minutes <= 0 {
				return fmt.Errorf("--minutes must be positive")
			}
			app, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.Log(context.Background(), topic, minutes, xp)
			if err != nil {
				return err
			}
			if out.LogDropped {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "history row dropped; totals still updated")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged %s (%dm, %+d XP), %d total\n", topic, minutes, xp, out.Stats.TotalXP)
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "what was studied")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "minutes spent")
	cmd.Flags().IntVar(&xp, "xp", 0, "XP to award")
	return cmd
}

func newServeCmd(cfgPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the companion study service",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bootstrap.RunServer(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
