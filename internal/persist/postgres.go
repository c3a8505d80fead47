package persist

import (
	"context"
	"fmt"
	"taskPlanner/internal/logger"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Postgres - реализация хранилища блобов поверх одной kv-таблицы.
// Ядру всё равно, что за ней PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Persist: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Persist: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Persist: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	// одна таблица, схема тривиальная - накатываем прямо здесь
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS planner_kv (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		pool.Close()
		logger.Error("Persist: Ошибка создания таблицы", err)
		return nil, fmt.Errorf("создание таблицы planner_kv: %w", err)
	}

	logger.Info("Persist: Успешное подключение к PostgreSQL")
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Close() {
	s.pool.Close()
	logger.Info("Persist: Закрытие всех соединений PostgreSQL")
}

func (s *Postgres) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Persist: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Postgres) Save(ctx context.Context, key string, value []byte) error {
	start := time.Now()

	query := `INSERT INTO planner_kv (key, value, updated_at)
				VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE
				SET value = EXCLUDED.value,
					updated_at = NOW()`

	_, err := s.pool.Exec(ctx, query, key, value)
	if err != nil {
		logger.Error("Persist: Запись блоба", err, zap.String("key", key))
		return fmt.Errorf("запись блоба %s: %w", key, err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Persist: Медленная операция",
			zap.String("key", key),
			zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM planner_kv WHERE key = $1`

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		logger.Error("Persist: Чтение блоба", err, zap.String("key", key))
		return nil, fmt.Errorf("чтение блоба %s: %w", key, err)
	}
	return value, nil
}

var _ BlobStore = (*Postgres)(nil)
