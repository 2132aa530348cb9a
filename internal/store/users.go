package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
)

// GetUserByUsername returns nil, nil when no such user exists.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i], nil
		}
	}
	return nil, nil
}

// CreateUser is mainly for seeding the initial admin
func (s *Store) CreateUser(ctx context.Context, username, hashedPassword string) error {
	return s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		var maxID int64
		for _, u := range users {
			if strings.EqualFold(u.Username, username) {
				return nil, fmt.Errorf("user %q already exists", username)
			}
			maxID = max(maxID, u.ID)
		}
		return append(users, models.User{
			ID:       nextID(s.now(), maxID),
			Username: username,
			Password: hashedPassword,
		}), nil
	})
}
