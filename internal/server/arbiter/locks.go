package arbiter

import "sync"

// keyedMutex выдает отдельный мьютекс на каждую запись.
// Записи с разными ключами обрабатываются параллельно, запись с одним ключом сериализуется.
type keyedMutex struct {
	locks map[string]*refLock
	mu    sync.Mutex
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// size возвращает число захваченных или ожидаемых ключей
func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func trackerKey(id string) string {
	return "tracker:" + id
}

func entryKey(date, trackerID string) string {
	return "entry:" + date + "|" + trackerID
}
