package model

type Store struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description"`
	LogoImage     *string        `json:"logo_image"`
	BannerImage   *string        `json:"banner_image"`
	InstagramLink string         `json:"instagram_link"`
	WebsiteLink   string         `json:"website_link"`
	OrganizerName string         `json:"organizer_name"`
	Events        []EventSummary `json:"events,omitempty"`
}
