package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"taskPlanner/internal/config"
	"taskPlanner/internal/handlers"
	"taskPlanner/internal/history"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/middleware"
	"taskPlanner/internal/persist"
	"taskPlanner/internal/service"
	"taskPlanner/internal/store"
	"taskPlanner/internal/worker"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		cfg = config.Default()
	}

	logger.Init(cfg.Logging.Development)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// граница персистентности: непрозрачное kv-хранилище блобов
	var blob persist.BlobStore
	if cfg.Storage.Type == "postgres" {
		pg, err := persist.NewPostgres(ctx, cfg.Storage.URL)
		if err != nil {
			logger.Error("Не удалось подключиться к PostgreSQL, работаем в памяти", err)
			blob = persist.NewMemory()
		} else {
			blob = pg
		}
	} else {
		blob = persist.NewMemory()
	}
	defer blob.Close()

	plannerStore := store.New()

	// история строится на старте; если не вышло - деградация до Nop,
	// операции *WithUndo прозрачно превращаются в прямые мутации
	var recorder history.Recorder
	manager, err := history.New(cfg.History.Depth)
	if err != nil {
		logger.Warn("История недоступна, работаем без undo/redo", zap.Error(err))
		recorder = history.Nop{}
	} else {
		recorder = manager
	}

	debouncer := persist.NewDebouncer(blob, cfg.Persistence.Debounce)
	defer debouncer.Close(context.Background())

	planner := service.NewPlannerService(plannerStore, recorder, debouncer)
	if err := planner.Bootstrap(ctx, blob); err != nil {
		logger.Error("Загрузка состояния не удалась, стартуем с пустым", err)
	}

	autosave := worker.NewAutosaveWorker(debouncer, &cfg.Persistence.Autosave)
	go autosave.Start(ctx)

	taskHandler := handlers.NewTaskHandler(planner)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetFilteredTasks) // GET /tasks
		r.Post("/", taskHandler.PostTask)        // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/bucket", taskHandler.MoveTaskToBucket) // POST /tasks/{id}/bucket
			r.Post("/start", taskHandler.StartTaskNow)      // POST /tasks/{id}/start
			r.Post("/pomodoro", taskHandler.AddTaskPomodoro)

			r.Route("/instances", func(r chi.Router) {
				r.Get("/", taskHandler.GetInstances)
				r.Post("/", taskHandler.PostInstance)
				r.Put("/{instanceId}", taskHandler.PutInstance)
				r.Delete("/{instanceId}", taskHandler.DeleteInstance)
			})

			r.Route("/subtasks", func(r chi.Router) {
				r.Post("/", taskHandler.PostSubtask)
				r.Put("/{subtaskId}", taskHandler.PutSubtask)
				r.Post("/{subtaskId}/toggle", taskHandler.ToggleSubtask)
				r.Delete("/{subtaskId}", taskHandler.DeleteSubtask)
			})
		})
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", taskHandler.GetProjects)
		r.Post("/", taskHandler.PostProject)
		r.Post("/prune", taskHandler.PruneProjects)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", taskHandler.UpdateProjectByID)
			r.Delete("/", taskHandler.DeleteProjectByID)
		})
	})

	r.Route("/view", func(r chi.Router) {
		r.Get("/selection", taskHandler.GetSelection)
		r.Put("/selection", taskHandler.PutSelection)
		r.Get("/counts", taskHandler.GetCounts)
		r.Get("/by-status", taskHandler.GetTasksByStatus)
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/", taskHandler.GetHistory)
		r.Post("/undo", taskHandler.PostUndo)
		r.Post("/redo", taskHandler.PostRedo)
	})

	r.Post("/import", taskHandler.PostImport)
	r.Get("/integrity", taskHandler.GetIntegrity)
	r.Post("/integrity/repair", taskHandler.PostRepair)

	r.Get("/health", taskHandler.HealthCheck)

	server := &http.Server{Addr: cfg.GetServerAddr(), Handler: r}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logger.Info("Остановка сервера, финальный сброс состояния")
		cancel()
		planner.Flush(context.Background())
		server.Shutdown(context.Background())
	}()

	logger.Info("Server started", zap.String("addr", cfg.GetServerAddr()))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Сервер упал", err)
	}
}
