package repositories

import (
	"context"

	"campusEvents/internal/models/domain"
	"campusEvents/internal/models/repositories"
)

// ReadProfile отдаёт статический профиль. Изменений профиля нет.
func (r *Repository) ReadProfile(ctx context.Context) (domain.Profile, error) {
	p := r.profile
	p.SavedEvents = append([]domain.SavedEvent(nil), r.profile.SavedEvents...)
	p.PastEvents = append([]domain.PastEvent(nil), r.profile.PastEvents...)
	p.Settings = append([]domain.Setting(nil), r.profile.Settings...)
	return p, nil
}

func mapProfileToDomain(p repositories.Profile) domain.Profile {
	result := domain.Profile{
		User: domain.User{
			Name:   p.User.Name,
			Email:  p.User.Email,
			Avatar: p.User.Avatar,
			Major:  p.User.Major,
			Year:   p.User.Year,
		},
	}

	for _, e := range p.SavedEvents {
		result.SavedEvents = append(result.SavedEvents, domain.SavedEvent{
			ID:       e.ID,
			Title:    e.Title,
			Date:     e.Date,
			Location: e.Location,
			Reminder: e.Reminder,
		})
	}

	for _, e := range p.PastEvents {
		result.PastEvents = append(result.PastEvents, domain.PastEvent{
			ID:       e.ID,
			Title:    e.Title,
			Date:     e.Date,
			Location: e.Location,
		})
	}

	for _, s := range p.Settings {
		result.Settings = append(result.Settings, domain.Setting{
			ID:      s.ID,
			Group:   s.Group,
			Label:   s.Label,
			Enabled: s.Enabled,
		})
	}

	return result
}
