package registry

import "sync"

// Connection описывает живое двунаправленное соединение пользователя
type Connection interface {
	ID() string
	// Send ставит фрейм в очередь на отправку и не блокируется
	Send(frame interface{}) error
}

// Registry сопоставляет id пользователя с его текущим соединением.
// У пользователя не больше одного соединения: последняя регистрация побеждает.
type Registry struct {
	mu    sync.RWMutex
	conns map[int]Connection
}

func New() *Registry {
	return &Registry{conns: make(map[int]Connection)}
}

// Register привязывает соединение и возвращает вытесненное, если оно было.
// Вытесненное соединение не закрывается.
func (r *Registry) Register(userID int, conn Connection) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, replaced := r.conns[userID]
	r.conns[userID] = conn
	return prev, replaced && prev != conn
}

// Unregister удаляет запись, только если она все еще указывает на conn
func (r *Registry) Unregister(userID int, conn Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[userID]
	if !ok || current != conn {
		return false
	}
	delete(r.conns, userID)
	return true
}

func (r *Registry) Lookup(userID int) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[userID]
	return conn, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
