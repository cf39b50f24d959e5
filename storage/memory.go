package storage

import (
	"sync"

	"github.com/amonks/td/todo"
)

// MemoryStore keeps todos in process memory. Contents are lost on exit.
// FindAll returns todos in insertion order.
type MemoryStore struct {
	mu    sync.Mutex
	order []todo.ID
	todos map[todo.ID]todo.Todo
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(initial ...todo.Todo) *MemoryStore {
	s := &MemoryStore{todos: make(map[todo.ID]todo.Todo)}
	for _, t := range initial {
		s.put(t)
	}
	return s
}

func (s *MemoryStore) put(t todo.Todo) {
	if _, ok := s.todos[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.todos[t.ID] = detach(t)
}

// detach returns t with its own copy of DueDate, so stored todos share no
// memory with callers.
func detach(t todo.Todo) todo.Todo {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// FindByID returns the todo with the given ID.
func (s *MemoryStore) FindByID(id todo.ID) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return todo.Todo{}, &todo.NotFoundError{ID: id}
	}
	return detach(t), nil
}

// FindAll returns every todo in insertion order.
func (s *MemoryStore) FindAll() ([]todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot(), nil
}

func (s *MemoryStore) snapshot() []todo.Todo {
	todos := make([]todo.Todo, 0, len(s.order))
	for _, id := range s.order {
		todos = append(todos, detach(s.todos[id]))
	}
	return todos
}

// Save inserts a todo.
func (s *MemoryStore) Save(t todo.Todo) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[t.ID]; ok {
		return todo.Todo{}, &todo.AlreadyExistsError{ID: t.ID}
	}
	s.put(t)
	return detach(t), nil
}

// Update replaces or inserts a todo.
func (s *MemoryStore) Update(t todo.Todo) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(t)
	return detach(t), nil
}

// DeleteByID removes a todo.
func (s *MemoryStore) DeleteByID(id todo.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return &todo.NotFoundError{ID: id}
	}
	delete(s.todos, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ReplaceAll discards the current contents and stores todos.
func (s *MemoryStore) ReplaceAll(todos []todo.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.todos = make(map[todo.ID]todo.Todo, len(todos))
	for _, t := range todos {
		s.put(t)
	}
	return nil
}

// FindByStatus returns the todos with the given status.
func (s *MemoryStore) FindByStatus(status todo.Status) ([]todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return todo.FilterByStatus(s.snapshot(), status), nil
}

// FindByPriority returns the todos with the given priority.
func (s *MemoryStore) FindByPriority(priority todo.Priority) ([]todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return todo.FilterByPriority(s.snapshot(), priority), nil
}

// Count returns the number of todos.
func (s *MemoryStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.todos), nil
}
