package provider

import (
	"errors"
	"strings"

	"github.com/AdrienCambier1/ng-music-platform/internal/model"
)

// Wire shapes are validated here and converted to model.Product at the
// boundary; nothing downstream ever sees them.

type wirePage struct {
	Items []wireItem `json:"items"`
	Total int        `json:"total"`
}

type wireItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	ReleaseDate string       `json:"release_date"`
	Genre       string       `json:"genre"`
	ImageURL    string       `json:"image_url"`
	Artists     []wireArtist `json:"artists"`
	Tracks      []wireTrack  `json:"tracks"`
}

type wireArtist struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

type wireTrack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	PreviewURL string `json:"preview_url"`
}

const defaultStyle = "Album"

func (it wireItem) toProduct() (model.Product, error) {
	if it.ID == "" {
		return model.Product{}, errors.New("item missing id")
	}
	if it.Name == "" {
		return model.Product{}, errors.New("item missing name")
	}

	names := make([]string, 0, len(it.Artists))
	artists := make([]model.Artist, 0, len(it.Artists))
	for _, a := range it.Artists {
		if a.Name == "" {
			continue
		}
		names = append(names, a.Name)
		artists = append(artists, model.Artist{Name: a.Name, ProfileURL: a.ProfileURL})
	}

	style := it.Genre
	if style == "" {
		style = defaultStyle
	}

	var tracks []model.Track
	for _, t := range it.Tracks {
		tracks = append(tracks, model.Track{
			TrackID:         t.ID,
			TrackName:       t.Name,
			TrackDuration:   t.DurationMS,
			TrackPreviewURL: t.PreviewURL,
		})
	}

	return model.Product{
		ID:          it.ID,
		Title:       it.Name,
		Author:      strings.Join(names, ", "),
		CreatedDate: it.ReleaseDate,
		Style:       style,
		Price:       PriceFromID(it.ID),
		ImageURL:    it.ImageURL,
		Artists:     artists,
		Tracks:      tracks,
	}, nil
}
