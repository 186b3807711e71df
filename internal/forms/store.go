package forms

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"ticketsafi/web/internal/service/ticketsafi"
)

const (
	MsgStoreNameRequired = "Store Name is required."
	MsgStoreCreateFailed = "Failed to launch store."
	MsgStoreSaveFailed   = "Failed to update store."
)

// Slugify lowercases name, keeps letters and digits and joins the words
// with single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingDash = true
		}
	}
	return b.String()
}

type StoreForm struct {
	Name          string
	Slug          string
	Description   string
	InstagramLink string
	WebsiteLink   string
	Logo          *ticketsafi.File
	Banner        *ticketsafi.File
}

// ParseStore reads the store form. The slug always derives from the name.
func ParseStore(r *http.Request) (StoreForm, error) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return StoreForm{}, err
	}
	f := StoreForm{
		Name:          field(r, "name"),
		Description:   field(r, "description"),
		InstagramLink: field(r, "instagram_link"),
		WebsiteLink:   field(r, "website_link"),
	}
	f.Slug = Slugify(f.Name)

	var err error
	if f.Logo, err = readFile(r, "logo_image"); err != nil {
		return f, err
	}
	if f.Banner, err = readFile(r, "banner_image"); err != nil {
		return f, err
	}
	return f, nil
}

func (f StoreForm) Validate() Errors {
	errs := Errors{}
	if f.Name == "" || f.Slug == "" {
		errs.Add("name", MsgStoreNameRequired)
	}
	return errs
}

func (f StoreForm) Submission() ticketsafi.StoreSubmission {
	return ticketsafi.StoreSubmission{
		Name:          f.Name,
		Slug:          f.Slug,
		Description:   f.Description,
		InstagramLink: f.InstagramLink,
		WebsiteLink:   f.WebsiteLink,
		Logo:          f.Logo,
		Banner:        f.Banner,
	}
}

// StoreFailure maps a store create or update error to the form message.
func StoreFailure(err error, slug, fallback string) string {
	var apiErr *ticketsafi.Error
	if errors.As(err, &apiErr) {
		if strings.Contains(apiErr.Field("slug"), "already exists") {
			return SlugTakenMessage(slug)
		}
		if apiErr.Kind == ticketsafi.KindConflict {
			return ticketsafi.MessageOr(err, fallback)
		}
	}
	return fallback
}

func SlugTakenMessage(slug string) string {
	return fmt.Sprintf("The URL 'ticketsafi.com/store/%s' is already taken. Please choose a different name.", slug)
}
