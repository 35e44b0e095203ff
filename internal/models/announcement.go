package models

// Attachment is one downloadable file discovered on a listing row.
type Attachment struct {
	Name string
	URL  string
}

// Announcement is one notice scraped from the ministry listing page.
// Announcements live only for the duration of a crawl pass; the durable
// record is the Project created later from the downloaded PDF.
type Announcement struct {
	Number      string
	Title       string
	Date        string
	Views       string
	Attachments []Attachment
}
