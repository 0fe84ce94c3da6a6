package sheets

import "sync"

// LockRegistry выдает именованные мьютексы для сериализации конкурирующих
// read-modify-write операций над одним реестром. Паттерн "удалить и
// переписать" при реконсиляции небезопасен при параллельных вызовах
// (перекрывающиеся таймер и вебхук), поэтому каждая мутация реестра и
// каждый переход состояния идентификатора выполняется под своим замком.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLockRegistry создает пустой реестр замков.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

// Lock возвращает мьютекс для указанного реестра, создавая его при первом
// обращении. Один и тот же ключ всегда дает один и тот же мьютекс.
func (r *LockRegistry) Lock(register string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[register]
	if !ok {
		l = &sync.Mutex{}
		r.locks[register] = l
	}
	return l
}
