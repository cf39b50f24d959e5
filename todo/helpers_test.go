package todo

import (
	"testing"
	"time"
)

// fakeRepo is a minimal in-package Repository used to exercise operations
// without importing the storage backends.
type fakeRepo struct {
	order  []ID
	todos  map[ID]Todo
	failOn string
	err    error
}

func newFakeRepo(todos ...Todo) *fakeRepo {
	repo := &fakeRepo{todos: make(map[ID]Todo)}
	for _, t := range todos {
		repo.order = append(repo.order, t.ID)
		repo.todos[t.ID] = t
	}
	return repo
}

func (r *fakeRepo) fail(op string) error {
	if r.failOn == op {
		return &RepositoryError{Op: op, Cause: r.err}
	}
	return nil
}

func (r *fakeRepo) FindByID(id ID) (Todo, error) {
	if err := r.fail("find"); err != nil {
		return Todo{}, err
	}
	t, ok := r.todos[id]
	if !ok {
		return Todo{}, &NotFoundError{ID: id}
	}
	return t, nil
}

func (r *fakeRepo) FindAll() ([]Todo, error) {
	if err := r.fail("find"); err != nil {
		return nil, err
	}
	out := make([]Todo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.todos[id])
	}
	return out, nil
}

func (r *fakeRepo) Save(t Todo) (Todo, error) {
	if err := r.fail("save"); err != nil {
		return Todo{}, err
	}
	if _, ok := r.todos[t.ID]; ok {
		return Todo{}, &AlreadyExistsError{ID: t.ID}
	}
	r.order = append(r.order, t.ID)
	r.todos[t.ID] = t
	return t, nil
}

func (r *fakeRepo) Update(t Todo) (Todo, error) {
	if err := r.fail("update"); err != nil {
		return Todo{}, err
	}
	if _, ok := r.todos[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.todos[t.ID] = t
	return t, nil
}

func (r *fakeRepo) DeleteByID(id ID) error {
	if err := r.fail("delete"); err != nil {
		return err
	}
	if _, ok := r.todos[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(r.todos, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) FindByStatus(status Status) ([]Todo, error) {
	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	return FilterByStatus(all, status), nil
}

func (r *fakeRepo) FindByPriority(priority Priority) ([]Todo, error) {
	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	return FilterByPriority(all, priority), nil
}

func (r *fakeRepo) Count() (int, error) {
	all, err := r.FindAll()
	return len(all), err
}

// setClock pins Now for the duration of the test.
func setClock(t *testing.T, now time.Time) {
	t.Helper()
	previous := clock
	clock = func() time.Time { return now }
	t.Cleanup(func() { clock = previous })
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed.UTC()
}

func testTodo(id, title string, status Status, priority Priority, created time.Time) Todo {
	return Todo{
		ID:        ID(id),
		Title:     title,
		Status:    status,
		Priority:  priority,
		CreatedAt: created,
		UpdatedAt: created,
	}
}
