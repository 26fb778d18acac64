package api

import "time"

// Envelope is the backend's response wrapper for every entity.
type Envelope[T any] struct {
	Success    bool `json:"success"`
	DBResponse *T   `json:"dbResponse"`
}

type Country struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Cities      []City     `json:"cities,omitempty"`
	Events      []Event    `json:"events,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type City struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	CountryCode string     `json:"countryCode,omitempty"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Latitude    float64    `json:"lat,omitempty"`
	Longitude   float64    `json:"lng,omitempty"`
	Events      []Event    `json:"events,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Category struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Events      []Event    `json:"events,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Event is a single listing. Description is markdown.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Images      []string   `json:"images,omitempty"`
	StartAt     *time.Time `json:"startAt,omitempty"`
	EndAt       *time.Time `json:"endAt,omitempty"`
	CountryCode string     `json:"countryCode,omitempty"`
	CitySlug    string     `json:"citySlug,omitempty"`
	CityName    string     `json:"cityName,omitempty"`
	PlaceID     string     `json:"placeId,omitempty"`
	Place       *Place     `json:"place,omitempty"`
	Categories  []Category `json:"categories,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	TicketURL   string     `json:"ticketUrl,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Folder struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	GroupID     string     `json:"groupId,omitempty"`
	Events      []Event    `json:"events,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Folders     []Folder `json:"folders,omitempty"`
}

type Place struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"lat,omitempty"`
	Longitude float64 `json:"lng,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	MapURL    string  `json:"mapUrl,omitempty"`
}

// Stag is a curated ("special") tag with its own landing page.
type Stag struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Events      []Event `json:"events,omitempty"`
}

type Tag struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Events      []Event `json:"events,omitempty"`
}

// EventList is returned by the date, today, week, search, nearby and event list endpoints.
type EventList struct {
	Date        string  `json:"date,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Events      []Event `json:"events"`
	Total       int     `json:"total,omitempty"`
	Page        int     `json:"page,omitempty"`
}
