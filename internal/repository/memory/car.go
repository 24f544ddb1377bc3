package memory

import (
	"fmt"
	"sort"

	"carshare-backend/internal/domain"
)

type carRepository struct {
	cars   map[int64]*domain.Car
	nextID int64
}

func newCarRepository() *carRepository {
	return &carRepository{cars: make(map[int64]*domain.Car), nextID: 1}
}

func copyCar(c *domain.Car) *domain.Car {
	copied := *c
	copied.Offers = append([]domain.Offer(nil), c.Offers...)
	return &copied
}

func (r *carRepository) Create(car *domain.Car) error {
	car.ID = r.nextID
	r.nextID++
	r.cars[car.ID] = copyCar(car)
	return nil
}

func (r *carRepository) GetByID(id int64) (*domain.Car, error) {
	c, ok := r.cars[id]
	if !ok {
		return nil, fmt.Errorf("car %d: %w", id, domain.ErrNotFound)
	}
	return copyCar(c), nil
}

func (r *carRepository) Update(car *domain.Car) error {
	if _, ok := r.cars[car.ID]; !ok {
		return fmt.Errorf("car %d: %w", car.ID, domain.ErrNotFound)
	}
	r.cars[car.ID] = copyCar(car)
	return nil
}

func (r *carRepository) ListByOwner(owner string) ([]domain.Car, error) {
	var out []domain.Car
	for _, c := range r.cars {
		if c.Owner == owner {
			out = append(out, *copyCar(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
