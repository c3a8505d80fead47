// plannerops - обслуживающая утилита: импорт восстановления, проверка
// и починка целостности, чистка пустых проектов. Работает с тем же
// хранилищем блобов, что и сервис.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"taskPlanner/internal/config"
	"taskPlanner/internal/history"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/persist"
	"taskPlanner/internal/service"
	"taskPlanner/internal/store"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plannerops",
		Short: "Обслуживание данных планировщика",
	}

	rootCmd.PersistentFlags().String("config", "config.yml", "путь к конфигурации")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(repairCmd())
	rootCmd.AddCommand(pruneCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openPlanner - общая обвязка: конфиг, блоб-хранилище, загрузка состояния.
func openPlanner(cmd *cobra.Command) (*service.PlannerService, persist.BlobStore, error) {
	ctx := context.Background()

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		cfg = config.Default()
	}

	logger.Init(false)

	var blob persist.BlobStore
	if cfg.Storage.Type == "postgres" {
		blob, err = persist.NewPostgres(ctx, cfg.Storage.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("подключение к хранилищу: %w", err)
		}
	} else {
		blob = persist.NewMemory()
	}

	debouncer := persist.NewDebouncer(blob, 0)
	planner := service.NewPlannerService(store.New(), history.Nop{}, debouncer)
	if err := planner.Bootstrap(ctx, blob); err != nil {
		blob.Close()
		return nil, nil, err
	}

	return planner, blob, nil
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.json]",
		Short: "Импорт восстановления из JSON-файла",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, blob, err := openPlanner(cmd)
			if err != nil {
				return err
			}
			defer blob.Close()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("чтение файла: %w", err)
			}

			var records []store.ImportRecord
			if err := json.Unmarshal(raw, &records); err != nil {
				return fmt.Errorf("разбор файла: %w", err)
			}

			ctx := context.Background()
			added, skipped := planner.ImportTasks(ctx, records)
			planner.Flush(ctx)

			fmt.Printf("Импортировано: %d, пропущено: %d\n", added, skipped)
			return nil
		},
	}
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Отчёт о целостности данных",
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, blob, err := openPlanner(cmd)
			if err != nil {
				return err
			}
			defer blob.Close()

			issues := planner.CheckIntegrity(context.Background())
			if len(issues) == 0 {
				fmt.Println("Проблем не найдено")
				return nil
			}

			for _, issue := range issues {
				fmt.Printf("[%s] %s %s.%s: %s\n",
					issue.Severity, issue.Kind, issue.RecordID, issue.Field, issue.Reason)
			}
			fmt.Printf("Всего: %d\n", len(issues))
			return nil
		},
	}
}

func repairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Применить безопасные исправления целостности",
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, blob, err := openPlanner(cmd)
			if err != nil {
				return err
			}
			defer blob.Close()

			ctx := context.Background()
			fixed := planner.RepairIntegrity(ctx)
			planner.Flush(ctx)

			fmt.Printf("Исправлено записей: %d\n", fixed)
			return nil
		},
	}
}

func pruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Пустые проекты: показать кандидатов, удалить с --force",
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, blob, err := openPlanner(cmd)
			if err != nil {
				return err
			}
			defer blob.Close()

			force, _ := cmd.Flags().GetBool("force")

			ctx := context.Background()
			candidates, deleted := planner.PruneProjects(ctx, force)

			if len(candidates) == 0 {
				fmt.Println("Кандидатов на чистку нет")
				return nil
			}
			for _, p := range candidates {
				fmt.Printf("%s  %s\n", p.ID, p.Name)
			}
			if force {
				planner.Flush(ctx)
				fmt.Printf("Удалено: %d\n", deleted)
			} else {
				fmt.Println("Запустите с --force, чтобы удалить перечисленные проекты")
			}
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "подтвердить удаление")
	return cmd
}
