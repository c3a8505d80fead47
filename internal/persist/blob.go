// Package persist - граница персистентности. Ядро видит её как
// непрозрачное асинхронное key-value хранилище блобов: save/load
// и ничего больше, транзакций между ключами нет.
package persist

import "context"

// Известные ключи.
const KeyTasks = "tasks"
const KeyProjects = "projects"
const KeySettings = "settings"
const KeyCanvas = "canvas"
const KeyTimer = "timer"
const KeyVersion = "version"

// SchemaVersion пишется под KeyVersion, чтобы загрузка могла понять,
// с каким форматом имеет дело.
const SchemaVersion = "2"

// BlobStore - контракт внешнего хранилища. Load возвращает (nil, nil),
// если ключа нет - отсутствие значения не ошибка.
type BlobStore interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Close()
}
