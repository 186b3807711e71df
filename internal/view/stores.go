package view

import "ticketsafi/web/internal/model"

const MsgStoresFailed = "Could not load stores."

type Store struct {
	ID            string
	Name          string
	Slug          string
	Description   string
	LogoURL       string
	BannerURL     string
	InstagramLink string
	WebsiteLink   string
	OrganizerName string
	Events        []EventCard
}

func (m *Mapper) Store(s model.Store) Store {
	return Store{
		ID:            s.ID,
		Name:          s.Name,
		Slug:          s.Slug,
		Description:   s.Description,
		LogoURL:       m.Assets.ResolveOr(s.LogoImage, ""),
		BannerURL:     m.Assets.ResolveOr(s.BannerImage, ""),
		InstagramLink: s.InstagramLink,
		WebsiteLink:   s.WebsiteLink,
		OrganizerName: s.OrganizerName,
		Events:        m.EventCards(s.Events),
	}
}

func (m *Mapper) Stores(ss []model.Store) []Store {
	out := make([]Store, 0, len(ss))
	for _, s := range ss {
		out = append(out, m.Store(s))
	}
	return out
}
