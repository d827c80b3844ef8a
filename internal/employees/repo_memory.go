package employees

import "context"

// MemoryRepo is an in-memory directory for tests and early development.
type MemoryRepo struct {
	Employees []Employee
}

func (r *MemoryRepo) FindByPhone(ctx context.Context, phone string) (Employee, error) {
	_ = ctx
	phone = normalizePhone(phone)
	for _, e := range r.Employees {
		if normalizePhone(e.Phone) == phone && e.Active {
			return e, nil
		}
	}
	return Employee{}, ErrNotFound
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (Employee, error) {
	_ = ctx
	for _, e := range r.Employees {
		if e.ID == id {
			return e, nil
		}
	}
	return Employee{}, ErrNotFound
}
