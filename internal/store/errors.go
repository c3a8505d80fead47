package store

import "errors"

var ErrNotFound = errors.New("запись не найдена")
var ErrValidation = errors.New("ошибка валидации")
var ErrDefaultProject = errors.New("проект по умолчанию нельзя удалить")
