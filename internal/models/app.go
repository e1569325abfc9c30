package models

import "time"

// AppStatus is the publication state of an app.
type AppStatus string

const (
	AppStatusDraft     AppStatus = "draft"
	AppStatusPublished AppStatus = "published"
	AppStatusArchived  AppStatus = "archived"
)

// ValidAppStatus reports whether s is a known app status.
func ValidAppStatus(s string) bool {
	switch AppStatus(s) {
	case AppStatusDraft, AppStatusPublished, AppStatusArchived:
		return true
	}
	return false
}

// App is one exam-preparation mobile app in the portfolio. The bundle ID
// is the primary key and never changes after creation.
type App struct {
	BundleID        string    `json:"bundle_id"`
	AppName         string    `json:"app_name"`
	AppNameFull     string    `json:"app_name_full,omitempty"`
	Description     string    `json:"description,omitempty"`
	DescriptionFull string    `json:"description_full,omitempty"`
	Categories      []string  `json:"categories,omitempty"`
	Status          AppStatus `json:"status"`
	IconURL         string    `json:"icon_url,omitempty"`
	AppStoreURL     string    `json:"app_store_url,omitempty"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	DownloadCount   int       `json:"download_count"`
	IsFeatured      bool      `json:"is_featured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
