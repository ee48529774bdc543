package api

import (
	"context"

	"sighting-intake-service/internal/domain"
)

type panicRepo struct{}

func (panicRepo) Append(context.Context, domain.Sighting) (domain.Sighting, error) {
	panic("append exploded")
}

func (panicRepo) List(context.Context) ([]domain.Sighting, error) {
	panic("list exploded")
}
