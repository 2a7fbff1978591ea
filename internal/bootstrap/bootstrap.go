// Package bootstrap wires the object graph: one shared REST client
// behind every outbound adapter on the client side, and the storage,
// model, and router stack behind the serve command.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	focusin "github.com/Jibinz12/cerebra-app/internal/modules/focus/port/in"
	focususecase "github.com/Jibinz12/cerebra-app/internal/modules/focus/usecase"
	planinadapter "github.com/Jibinz12/cerebra-app/internal/modules/plan/adapter/in"
	planoutadapter "github.com/Jibinz12/cerebra-app/internal/modules/plan/adapter/out"
	planin "github.com/Jibinz12/cerebra-app/internal/modules/plan/port/in"
	planservice "github.com/Jibinz12/cerebra-app/internal/modules/plan/service"
	planusecase "github.com/Jibinz12/cerebra-app/internal/modules/plan/usecase"
	progressinadapter "github.com/Jibinz12/cerebra-app/internal/modules/progress/adapter/in"
	progressoutadapter "github.com/Jibinz12/cerebra-app/internal/modules/progress/adapter/out"
	progressin "github.com/Jibinz12/cerebra-app/internal/modules/progress/port/in"
	progressusecase "github.com/Jibinz12/cerebra-app/internal/modules/progress/usecase"
	quizinadapter "github.com/Jibinz12/cerebra-app/internal/modules/quiz/adapter/in"
	quizoutadapter "github.com/Jibinz12/cerebra-app/internal/modules/quiz/adapter/out"
	quizin "github.com/Jibinz12/cerebra-app/internal/modules/quiz/port/in"
	quizusecase "github.com/Jibinz12/cerebra-app/internal/modules/quiz/usecase"
	"github.com/Jibinz12/cerebra-app/internal/platform/clock"
	"github.com/Jibinz12/cerebra-app/internal/platform/config"
	"github.com/Jibinz12/cerebra-app/internal/platform/logging"
	"github.com/Jibinz12/cerebra-app/internal/platform/rest"
	"github.com/Jibinz12/cerebra-app/internal/server/api"
	"github.com/Jibinz12/cerebra-app/internal/server/llm"
	"github.com/Jibinz12/cerebra-app/internal/server/storage"
	uiapp "github.com/Jibinz12/cerebra-app/internal/ui/app"
)

// App is the wired client: CLI handlers for the one-shot commands plus
// the usecases the TUI and the focus countdown consume directly.
type App struct {
	PlanCLI     planinadapter.CLIHandler
	ProgressCLI progressinadapter.CLIHandler
	QuizCLI     quizinadapter.CLIHandler
	Focus       focusin.Usecase

	plan     planin.Usecase
	quiz     quizin.Usecase
	progress progressin.Usecase
}

func New(cfg config.Config) *App {
	clk := clock.SystemClock{}
	client := rest.NewClient(cfg.Service.BaseURL, cfg.Service.Token)

	// HTTPPlanner covers both generation ports; they share one remote
	// surface.
	planner := planoutadapter.NewHTTPPlanner(client)
	planUC := planusecase.NewInteractor(
		planservice.NewPlanService(clk),
		planner,
		planoutadapter.NewHTTPCalendar(client),
		planner,
	)

	progressUC := progressusecase.NewInteractor(
		progressoutadapter.NewHTTPSessionLog(client),
		progressoutadapter.NewHTTPStats(client),
	)
	focusUC := focususecase.NewInteractor(progressUC)
	quizUC := quizusecase.NewInteractor(quizoutadapter.NewHTTPQuizSource(client), progressUC)

	return &App{
		PlanCLI:     planinadapter.NewCLIHandler(planUC),
		ProgressCLI: progressinadapter.NewCLIHandler(progressUC),
		QuizCLI:     quizinadapter.NewCLIHandler(quizUC),
		Focus:       focusUC,
		plan:        planUC,
		quiz:        quizUC,
		progress:    progressUC,
	}
}

// RunTUI starts the full-screen client.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.plan, app.Focus, app.quiz, app.progress, app.progress)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// RunServer runs the companion service until ctx is cancelled, then
// drains in-flight requests before returning.
func RunServer(ctx context.Context, cfg config.Config) error {
	log, err := logging.New(cfg.Server.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := storage.New(cfg.Server.DBPath, clock.SystemClock{})
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// No Ollama URL means the coach plans heuristically and declines
	// quiz and syllabus work.
	var provider llm.Provider
	if cfg.Server.Ollama.URL != "" {
		provider = llm.NewOllama(cfg.Server.Ollama.URL, cfg.Server.Ollama.Model)
	}
	coach := llm.NewCoach(provider, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(api.NewHandler(store, coach, log), cfg.Server.Token),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Infow("service up",
		"addr", cfg.Server.Addr,
		"db", cfg.Server.DBPath,
		"model_configured", cfg.Server.Ollama.URL != "",
	)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
