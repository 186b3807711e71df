package ticketsafi

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"time"
)

// File is an image held in memory until the form is submitted.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type multipartEncoder interface {
	encode(w *multipart.Writer) error
}

type TierSubmission struct {
	ID                string  `json:"id,omitempty"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	QuantityAllocated int     `json:"quantity_allocated"`
}

type EventSubmission struct {
	Title        string
	Description  string
	Category     string
	LocationName string
	Start        time.Time
	End          time.Time
	Store        string
	OfflineReady bool
	Poster       *File
	Tiers        []TierSubmission
}

func (s EventSubmission) encode(w *multipart.Writer) error {
	fields := [][2]string{
		{"title", s.Title},
		{"description", s.Description},
		{"location_name", s.LocationName},
		{"start_datetime", s.Start.UTC().Format(time.RFC3339)},
		{"end_datetime", s.End.UTC().Format(time.RFC3339)},
	}
	if s.Category != "" {
		fields = append(fields, [2]string{"category", s.Category})
	}
	if s.OfflineReady {
		fields = append(fields, [2]string{"is_offline_ready", strconv.FormatBool(true)})
	}
	if s.Store != "" {
		fields = append(fields, [2]string{"store", s.Store})
	}

	tiers, err := json.Marshal(s.Tiers)
	if err != nil {
		return err
	}
	fields = append(fields, [2]string{"tiers", string(tiers)})

	if err := writeFields(w, fields); err != nil {
		return err
	}
	return writeFile(w, "poster_image", s.Poster)
}

type StoreSubmission struct {
	Name          string
	Slug          string
	Description   string
	InstagramLink string
	WebsiteLink   string
	Logo          *File
	Banner        *File
}

func (s StoreSubmission) encode(w *multipart.Writer) error {
	fields := [][2]string{
		{"name", s.Name},
		{"slug", s.Slug},
		{"description", s.Description},
		{"instagram_link", s.InstagramLink},
		{"website_link", s.WebsiteLink},
	}
	if err := writeFields(w, fields); err != nil {
		return err
	}
	if err := writeFile(w, "logo_image", s.Logo); err != nil {
		return err
	}
	return writeFile(w, "banner_image", s.Banner)
}

func writeFields(w *multipart.Writer, fields [][2]string) error {
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("field %s: %w", f[0], err)
		}
	}
	return nil
}

func writeFile(w *multipart.Writer, field string, f *File) error {
	if f == nil || len(f.Data) == 0 {
		return nil
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("file %s: %w", field, err)
	}
	_, err = part.Write(f.Data)
	return err
}
